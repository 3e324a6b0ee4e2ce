package stepform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/stepform/internal/logging"
	"github.com/aretw0/stepform/internal/runtime"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/ports"
	"github.com/aretw0/stepform/pkg/schema"
)

// Engine is the high-level entry point for the stepform library.
// It wraps the internal runtime and hands finished drafts to a Submitter.
// Engine is stateless and safe for concurrent use; callers own the states.
type Engine struct {
	runtime     *runtime.Engine
	form        schema.Form
	submitter   ports.Submitter
	hooks       domain.LifecycleHooks
	runtimeOpts []runtime.EngineOption
	logger      *slog.Logger
	Name        string
}

var _ ports.Engine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSubmitter sets where finished drafts are handed off.
// Without one, Submit only validates and resets.
func WithSubmitter(s ports.Submitter) Option {
	return func(e *Engine) {
		e.submitter = s
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithClock(now))
	}
}

// WithIDGenerator overrides how submission ids are generated (default: UUIDv4).
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithIDGenerator(newID))
	}
}

// New initializes an Engine for the form. Malformed forms are rejected.
func New(form schema.Form, opts ...Option) (*Engine, error) {
	eng := &Engine{form: form, Name: form.ID}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("form", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	rt, err := runtime.NewEngine(form, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	return eng, nil
}

// Load reads a YAML or JSON form file and initializes an Engine for it.
func Load(path string, opts ...Option) (*Engine, error) {
	form, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	return New(form, opts...)
}

// Schema returns the form definition.
func (e *Engine) Schema() schema.Form {
	return e.form
}

// Steps returns the number of steps, review step included.
func (e *Engine) Steps() int {
	return e.runtime.Steps()
}

// Start creates the initial state for a session and triggers lifecycle hooks.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.State {
	return e.runtime.Start(ctx, sessionID)
}

// Render describes the active step of the state.
func (e *Engine) Render(state *domain.State) domain.StepView {
	return e.runtime.RenderStep(state)
}

// Summary returns the (label, value) rows of the draft in step-then-field order.
func (e *Engine) Summary(state *domain.State) []domain.SummaryEntry {
	return e.runtime.Summary(state.Draft)
}

// SetField stores a value and live-validates the field.
func (e *Engine) SetField(ctx context.Context, state *domain.State, fieldID, value string) (*domain.State, error) {
	return e.runtime.SetField(ctx, state, fieldID, value)
}

// Advance validates the active step and moves to the next one when valid.
func (e *Engine) Advance(ctx context.Context, state *domain.State) (*domain.State, bool) {
	return e.runtime.Advance(ctx, state)
}

// Retreat moves to the previous step.
func (e *Engine) Retreat(ctx context.Context, state *domain.State) (*domain.State, bool) {
	return e.runtime.Retreat(ctx, state)
}

// ValidateStep validates the fields of one step.
func (e *Engine) ValidateStep(index int, draft map[string]string) schema.Result {
	return e.runtime.ValidateStep(index, draft)
}

// ValidateAll validates the whole draft.
func (e *Engine) ValidateAll(draft map[string]string) schema.Result {
	return e.runtime.ValidateAll(draft)
}

// Submit finalizes the form on the review step.
//
// If the draft is invalid the returned state carries the errors and the
// submission is nil. If it is valid the submission is handed to the Submitter;
// on success OnSubmit fires and a reset state is returned. If the hand-off fails
// the state is returned as is, so the draft is not lost.
func (e *Engine) Submit(ctx context.Context, state *domain.State) (*domain.State, *domain.Submission, error) {
	next, sub, err := e.runtime.Submit(ctx, state)
	if err != nil || sub == nil {
		return next, nil, err
	}

	if e.submitter != nil {
		if err := e.submitter.Submit(ctx, sub); err != nil {
			e.logger.Error("submission hand-off failed", "session_id", state.SessionID, "submission_id", sub.ID, "err", err)
			return next, nil, fmt.Errorf("%w: %w", domain.ErrHandOff, err)
		}
	}

	e.logger.Info("form submitted", "session_id", state.SessionID, "submission_id", sub.ID)
	if e.hooks.OnSubmit != nil {
		e.hooks.OnSubmit(ctx, &domain.SubmitEvent{
			EventBase:  domain.EventBase{Timestamp: sub.SubmittedAt, Type: domain.EventSubmit, SessionID: state.SessionID},
			Submission: *sub,
		})
	}
	return e.runtime.Reset(ctx, next), sub, nil
}
