package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/stepform/internal/logging"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/ports"
)

// Commands understood at any prompt.
const (
	CommandBack = ":back"
	CommandQuit = ":quit"
)

// ErrInterrupted is returned when a signal or the caller's context stops the run.
var ErrInterrupted = errors.New("interrupted")

// Runner handles the prompt loop of one form instance using the provided IO.
type Runner struct {
	// Handler is the strategy for IO. If nil, one is built from Input and Output.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer

	// MaxInputSize limits a single answer. Zero means DefaultMaxInputSize.
	MaxInputSize int

	// SessionID names the instance passed to Engine.Start.
	SessionID string

	initialState *domain.State
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prompts through the form until it is submitted.
// A nil submission with a nil error means the user left before submitting.
func (r *Runner) Run(ctx context.Context, engine ports.Engine) (*domain.Submission, error) {
	handler := r.resolveHandler()

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	state := r.initialState
	if state == nil {
		state = engine.Start(ctx, r.SessionID)
	}

	for {
		view := engine.Render(state)
		if err := handler.Output(ctx, view); err != nil {
			return nil, fmt.Errorf("output error: %w", err)
		}

		var (
			next *domain.State
			sub  *domain.Submission
			err  error
		)
		if view.Review {
			next, sub, err = r.review(signals, handler, engine, state)
		} else {
			next, err = r.fill(signals, handler, engine, state)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.Logger.Debug("runner: input closed", "session_id", state.SessionID, "step", state.CurrentStep)
				return nil, nil
			}
			return nil, err
		}
		if sub != nil {
			return sub, nil
		}
		state = next
	}
}

// fill prompts for every field of the active step, then tries to advance.
func (r *Runner) fill(signals *SignalManager, handler IOHandler, engine ports.Engine, state *domain.State) (*domain.State, error) {
	ctx := signals.Context()
	fields := engine.Render(state).Fields

	for i := 0; i < len(fields); {
		f := fields[i]
		val, err := r.read(signals, handler, promptFor(f))
		if err != nil {
			return nil, err
		}

		switch val {
		case CommandBack:
			next, _ := engine.Retreat(ctx, state)
			return next, nil
		case CommandQuit:
			return nil, io.EOF
		}
		if val == "" && f.Value != "" {
			val = f.Value
		}

		next, err := engine.SetField(ctx, state, f.ID, val)
		if err != nil {
			return nil, err
		}
		state = next
		fields = engine.Render(state).Fields

		if msg := state.Errors[f.ID]; msg != "" {
			if err := handler.SystemOutput(ctx, msg); err != nil {
				return nil, err
			}
			continue
		}
		i++
	}

	next, moved := engine.Advance(ctx, state)
	r.Logger.Debug("runner: advance", "session_id", state.SessionID, "step", state.CurrentStep, "moved", moved)
	return next, nil
}

// review asks for confirmation on the review step and submits.
func (r *Runner) review(signals *SignalManager, handler IOHandler, engine ports.Engine, state *domain.State) (*domain.State, *domain.Submission, error) {
	ctx := signals.Context()
	val, err := r.read(signals, handler, Prompt{Label: "Submit? (yes, " + CommandBack + ", " + CommandQuit + ")"})
	if err != nil {
		return nil, nil, err
	}

	switch strings.ToLower(val) {
	case "y", "yes", "submit":
	case CommandBack, "back", "b":
		next, _ := engine.Retreat(ctx, state)
		return next, nil, nil
	case CommandQuit:
		return nil, nil, io.EOF
	default:
		return state, nil, handler.SystemOutput(ctx, "Type yes to submit or "+CommandBack+" to edit")
	}

	next, sub, err := engine.Submit(ctx, state)
	switch {
	case errors.Is(err, domain.ErrHandOff):
		r.Logger.Warn("runner: submission not delivered", "session_id", state.SessionID, "err", err)
		return next, nil, handler.SystemOutput(ctx, "Could not submit the form, please try again")
	case err != nil:
		return nil, nil, err
	case sub == nil:
		for _, f := range engine.Schema().Fields {
			if msg := next.Errors[f.ID]; msg != "" {
				if err := handler.SystemOutput(ctx, msg); err != nil {
					return nil, nil, err
				}
			}
		}
		return next, nil, nil
	}

	if err := handler.SystemOutput(ctx, "Submitted "+sub.ID); err != nil {
		return nil, nil, err
	}
	return next, sub, nil
}

func (r *Runner) read(signals *SignalManager, handler IOHandler, prompt Prompt) (string, error) {
	ctx := signals.Context()
	val, err := handler.Input(ctx, prompt)
	if err == nil {
		return val, nil
	}

	signals.CheckRace()
	if ctx.Err() != nil {
		r.Logger.Debug("runner: input cancelled", "err", ctx.Err())
		return "", ErrInterrupted
	}
	if errors.Is(err, io.EOF) {
		return "", io.EOF
	}
	return "", fmt.Errorf("input error: %w", err)
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	if r.Headless {
		jh := NewJSONHandler(r.Input, r.Output)
		jh.Sanitizer.MaxSize = r.MaxInputSize
		r.Handler = jh
		return jh
	}
	th := NewTextHandler(r.Input, r.Output,
		WithTextHandlerRenderer(r.Renderer),
		WithTextHandlerMaxInput(r.MaxInputSize),
	)
	// Memoize to prevent creating new pumps on subsequent Run() calls
	r.Handler = th
	return th
}
