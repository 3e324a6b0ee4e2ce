package ports

import (
	"context"

	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/schema"
)

// Engine defines the interface for form cores that do not maintain internal state.
// This is the primary interface used by adapters (e.g., HTTP, MCP) that keep one state per session.
type Engine interface {
	// Start creates the initial state for a session.
	Start(ctx context.Context, sessionID string) *domain.State

	// Render describes the active step of the state.
	Render(state *domain.State) domain.StepView

	// Summary returns the ordered (label, value) rows of the draft.
	Summary(state *domain.State) []domain.SummaryEntry

	// SetField stores a field value and live-validates it.
	SetField(ctx context.Context, state *domain.State, fieldID, value string) (*domain.State, error)

	// Advance moves to the next step if the current one is valid.
	Advance(ctx context.Context, state *domain.State) (*domain.State, bool)

	// Retreat moves to the previous step.
	Retreat(ctx context.Context, state *domain.State) (*domain.State, bool)

	// Submit finalizes the draft on the review step.
	// A nil submission with a nil error means the draft was rejected by validation.
	Submit(ctx context.Context, state *domain.State) (*domain.State, *domain.Submission, error)

	// Schema returns the form definition.
	Schema() schema.Form
}
