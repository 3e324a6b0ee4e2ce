package domain

import "time"

// SummaryEntry is one row of the review step, in step-then-field order.
type SummaryEntry struct {
	Step      int    `json:"step"`
	StepTitle string `json:"step_title"`
	Field     string `json:"field"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	// Secret marks values that renderers should mask (e.g. passwords).
	Secret bool `json:"secret,omitempty"`
}

// DisplayValue returns the value as it should be shown to a user.
func (e SummaryEntry) DisplayValue() string {
	if e.Secret && e.Value != "" {
		return maskedValue
	}
	return e.Value
}

const maskedValue = "••••••••"

// Submission is the finalized draft handed to a submitter.
type Submission struct {
	ID          string         `json:"id"`
	SessionID   string         `json:"session_id,omitempty"`
	FormID      string         `json:"form_id"`
	Draft       Draft          `json:"draft"`
	Summary     []SummaryEntry `json:"summary"`
	SubmittedAt time.Time      `json:"submitted_at"`
}
