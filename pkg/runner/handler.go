package runner

import (
	"context"

	"github.com/aretw0/stepform/pkg/domain"
)

// Prompt describes one answer the runner is waiting for.
type Prompt struct {
	// FieldID is empty for command prompts (e.g. the review confirmation).
	FieldID  string `json:"field_id,omitempty"`
	Label    string `json:"label"`
	Current  string `json:"current,omitempty"`
	Required bool   `json:"required,omitempty"`
	Secret   bool   `json:"secret,omitempty"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the active step.
	Output(ctx context.Context, view domain.StepView) error

	// Input reads one answer.
	Input(ctx context.Context, prompt Prompt) (string, error)

	// SystemOutput presents a meta-message (validation errors, status updates).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is written.
// This allows terminal styling without coupling the runner to a renderer.
type ContentRenderer func(string) (string, error)

func promptFor(f domain.FieldView) Prompt {
	return Prompt{
		FieldID:  f.ID,
		Label:    f.Label,
		Current:  f.Value,
		Required: f.Required,
		Secret:   f.Secret,
	}
}
