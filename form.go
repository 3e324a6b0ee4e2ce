package stepform

import (
	"context"

	"github.com/aretw0/stepform/pkg/domain"
)

// Form is a single form instance that owns its state.
// It is not safe for concurrent use.
type Form struct {
	engine *Engine
	state  *domain.State
}

// NewForm starts a fresh form instance at step 1 with an empty draft.
func (e *Engine) NewForm(ctx context.Context) *Form {
	return &Form{engine: e, state: e.Start(ctx, "")}
}

// Resume wraps an existing state, e.g. one restored by the caller.
func (e *Engine) Resume(state *domain.State) *Form {
	return &Form{engine: e, state: state.Snapshot()}
}

// CurrentStep returns the 1-based index of the active step.
func (f *Form) CurrentStep() int {
	return f.state.CurrentStep
}

// Draft returns a copy of the field values.
func (f *Form) Draft() domain.Draft {
	return f.state.Draft.Clone()
}

// Errors returns a copy of the current field errors.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.state.Errors))
	for k, v := range f.state.Errors {
		out[k] = v
	}
	return out
}

// State returns a snapshot of the whole state.
func (f *Form) State() *domain.State {
	return f.state.Snapshot()
}

// SetField stores a value and live-validates it.
func (f *Form) SetField(ctx context.Context, fieldID, value string) error {
	next, err := f.engine.SetField(ctx, f.state, fieldID, value)
	if err != nil {
		return err
	}
	f.state = next
	return nil
}

// Advance moves forward when the active step is valid and reports whether it moved.
func (f *Form) Advance(ctx context.Context) bool {
	var moved bool
	f.state, moved = f.engine.Advance(ctx, f.state)
	return moved
}

// Retreat moves one step back and reports whether it moved.
func (f *Form) Retreat(ctx context.Context) bool {
	var moved bool
	f.state, moved = f.engine.Retreat(ctx, f.state)
	return moved
}

// Submit finalizes the form. A nil submission with a nil error means the
// draft was rejected and Errors describes why.
func (f *Form) Submit(ctx context.Context) (*domain.Submission, error) {
	next, sub, err := f.engine.Submit(ctx, f.state)
	f.state = next
	return sub, err
}

// RenderStep describes the active step.
func (f *Form) RenderStep() domain.StepView {
	return f.engine.Render(f.state)
}

// Summary returns the ordered (label, value) rows of the draft.
func (f *Form) Summary() []domain.SummaryEntry {
	return f.engine.Summary(f.state)
}
