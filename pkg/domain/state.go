package domain

import "time"

// State represents the current snapshot of one form instance.
type State struct {
	// SessionID identifies the owning form instance (optional for single-owner forms).
	SessionID string `json:"session_id,omitempty"`

	// FormID is the identifier of the schema this state was created for.
	FormID string `json:"form_id,omitempty"`

	// CurrentStep is the 1-based index of the active step.
	CurrentStep int `json:"current_step"`

	// Draft holds the value of every field in the form.
	Draft Draft `json:"draft"`

	// Errors maps field ids to the message of their current violation.
	// A field absent from the map is currently valid (or not yet validated).
	Errors map[string]string `json:"errors,omitempty"`

	// UpdatedAt is the time of the last transition.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a clean state on the first step with an all-empty draft.
func NewState(sessionID string, fieldIDs ...string) *State {
	return &State{
		SessionID:   sessionID,
		CurrentStep: 1,
		Draft:       NewDraft(fieldIDs...),
		Errors:      make(map[string]string),
		UpdatedAt:   time.Now(),
	}
}

// Snapshot returns a deep copy of the state, safe to mutate independently.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Draft = s.Draft.Clone()
	next.Errors = make(map[string]string, len(s.Errors))
	for k, v := range s.Errors {
		next.Errors[k] = v
	}
	return &next
}

// HasErrors reports whether any field currently carries a violation.
func (s *State) HasErrors() bool {
	return len(s.Errors) > 0
}

// Draft maps field ids to their current string value.
type Draft map[string]string

// NewDraft creates a draft with every given field set to the empty string.
func NewDraft(fieldIDs ...string) Draft {
	d := make(Draft, len(fieldIDs))
	for _, id := range fieldIDs {
		d[id] = ""
	}
	return d
}

// Clone returns an independent copy of the draft.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
