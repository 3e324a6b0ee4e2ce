package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/stepform/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log every engine event.
// Field values are never logged; submissions are logged by id only.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step_enter", "session_id", e.SessionID, "step", e.Step, "title", e.Title)
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_leave", "session_id", e.SessionID, "step", e.Step)
		},
		OnValidationFailed: func(ctx context.Context, e *domain.ValidationEvent) {
			logger.InfoContext(ctx, "validation_failed", "session_id", e.SessionID, "step", e.Step, "violations", e.Violations)
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			logger.InfoContext(ctx, "submit", "session_id", e.SessionID, "submission_id", e.Submission.ID, "form", e.Submission.FormID)
		},
	}
}
