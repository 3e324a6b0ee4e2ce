// Package runtime implements the step navigation state machine and its validation.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/stepform/internal/logging"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/schema"
	"github.com/google/uuid"
)

// Engine is the core step-navigation state machine.
// Every transition takes a state and returns a new one; the input is never mutated.
type Engine struct {
	form   schema.Form
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
	newID  func() string
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides how submission ids are generated.
func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) {
		e.newID = newID
	}
}

// NewEngine creates an engine for the form. Malformed forms are rejected.
func NewEngine(form schema.Form, opts ...EngineOption) (*Engine, error) {
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("invalid form schema: %w", err)
	}
	e := &Engine{
		form:   form,
		logger: logging.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Form returns the schema driving the engine.
func (e *Engine) Form() schema.Form {
	return e.form
}

// Steps returns N, the number of steps including the review step.
func (e *Engine) Steps() int {
	return e.form.ReviewStep()
}

// Start creates the initial state: step 1, every field empty, no errors.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.State {
	state := e.fresh(sessionID)
	e.emitStepEnter(ctx, state)
	return state
}

// Reset returns a clean state for the same session, as after a successful submit.
func (e *Engine) Reset(ctx context.Context, state *domain.State) *domain.State {
	e.emitStepLeave(ctx, state)
	next := e.fresh(state.SessionID)
	e.emitStepEnter(ctx, next)
	return next
}

func (e *Engine) fresh(sessionID string) *domain.State {
	state := domain.NewState(sessionID, e.form.FieldIDs()...)
	state.FormID = e.form.ID
	state.UpdatedAt = e.now()
	return state
}

// SetField stores a value and re-validates the field live, together with any
// field whose equality rule points at it. It never changes the current step.
func (e *Engine) SetField(ctx context.Context, state *domain.State, id, value string) (*domain.State, error) {
	if _, ok := e.form.Field(id); !ok {
		return state, fmt.Errorf("%w: %q", domain.ErrUnknownField, id)
	}

	next := state.Snapshot()
	next.Draft[id] = value
	next.UpdatedAt = e.now()

	e.revalidate(next, id)
	for _, dep := range e.form.Dependents(id) {
		_, flagged := next.Errors[dep.ID]
		if next.Draft[dep.ID] != "" || flagged {
			e.revalidate(next, dep.ID)
		}
	}
	return next, nil
}

func (e *Engine) revalidate(state *domain.State, id string) {
	def, _ := e.form.Field(id)
	if v, ok := schema.ValidateField(def, state.Draft); ok {
		delete(state.Errors, id)
	} else {
		state.Errors[id] = v.Message
	}
}

// Advance validates the current step and moves forward when it is valid.
// On the review step it is a no-op. The returned bool reports whether the step changed.
func (e *Engine) Advance(ctx context.Context, state *domain.State) (*domain.State, bool) {
	next := state.Snapshot()
	if state.CurrentStep >= e.Steps() {
		return next, false
	}

	result := e.ValidateStep(state.CurrentStep, state.Draft)
	if !result.Valid() {
		step, _ := e.form.Step(state.CurrentStep)
		for _, id := range step.Fields {
			delete(next.Errors, id)
		}
		for id, v := range result {
			next.Errors[id] = v.Message
		}
		next.UpdatedAt = e.now()
		e.logger.Debug("advance rejected", "session_id", state.SessionID, "step", state.CurrentStep, "fields", result.Fields())
		e.emitValidationFailed(ctx, next, result)
		return next, false
	}

	e.emitStepLeave(ctx, state)
	next.CurrentStep++
	next.Errors = make(map[string]string)
	next.UpdatedAt = e.now()
	e.logger.Debug("advanced", "session_id", state.SessionID, "from", state.CurrentStep, "to", next.CurrentStep)
	e.emitStepEnter(ctx, next)
	return next, true
}

// Retreat moves one step back without touching the draft or the errors.
// On the first step it is a no-op.
func (e *Engine) Retreat(ctx context.Context, state *domain.State) (*domain.State, bool) {
	next := state.Snapshot()
	if state.CurrentStep <= 1 {
		return next, false
	}

	e.emitStepLeave(ctx, state)
	next.CurrentStep--
	next.UpdatedAt = e.now()
	e.logger.Debug("retreated", "session_id", state.SessionID, "from", state.CurrentStep, "to", next.CurrentStep)
	e.emitStepEnter(ctx, next)
	return next, true
}

// Submit re-validates the whole draft on the review step.
// When the draft is invalid the errors are surfaced on the returned state and the
// submission is nil. When it is valid the submission is assembled; the caller hands
// it off and then calls Reset.
func (e *Engine) Submit(ctx context.Context, state *domain.State) (*domain.State, *domain.Submission, error) {
	if state.CurrentStep != e.Steps() {
		return state, nil, fmt.Errorf("%w: current step is %d of %d", domain.ErrNotOnReviewStep, state.CurrentStep, e.Steps())
	}

	next := state.Snapshot()
	result := e.ValidateAll(state.Draft)
	if !result.Valid() {
		next.Errors = result.Messages()
		next.UpdatedAt = e.now()
		e.logger.Debug("submit rejected", "session_id", state.SessionID, "fields", result.Fields())
		e.emitValidationFailed(ctx, next, result)
		return next, nil, nil
	}

	next.Errors = make(map[string]string)
	sub := &domain.Submission{
		ID:          e.newID(),
		SessionID:   state.SessionID,
		FormID:      e.form.ID,
		Draft:       state.Draft.Clone(),
		Summary:     e.Summary(state.Draft),
		SubmittedAt: e.now(),
	}
	return next, sub, nil
}

func (e *Engine) stepEvent(typ domain.EventType, state *domain.State) *domain.StepEvent {
	step, _ := e.form.Step(state.CurrentStep)
	return &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: typ, SessionID: state.SessionID},
		Step:      state.CurrentStep,
		Title:     step.Title,
	}
}

func (e *Engine) emitStepEnter(ctx context.Context, state *domain.State) {
	if e.hooks.OnStepEnter != nil {
		e.hooks.OnStepEnter(ctx, e.stepEvent(domain.EventStepEnter, state))
	}
}

func (e *Engine) emitStepLeave(ctx context.Context, state *domain.State) {
	if e.hooks.OnStepLeave != nil {
		e.hooks.OnStepLeave(ctx, e.stepEvent(domain.EventStepLeave, state))
	}
}

func (e *Engine) emitValidationFailed(ctx context.Context, state *domain.State, result schema.Result) {
	if e.hooks.OnValidationFailed != nil {
		e.hooks.OnValidationFailed(ctx, &domain.ValidationEvent{
			EventBase:  domain.EventBase{Timestamp: e.now(), Type: domain.EventValidationFailed, SessionID: state.SessionID},
			Step:       state.CurrentStep,
			Violations: result.Rules(),
		})
	}
}
