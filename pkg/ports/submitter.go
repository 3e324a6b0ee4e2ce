package ports

import (
	"context"

	"github.com/aretw0/stepform/pkg/domain"
)

// Submitter receives a finalized, fully valid draft.
// An error means the hand-off failed and the form keeps its draft.
type Submitter interface {
	Submit(ctx context.Context, sub *domain.Submission) error
}

// SubmitterFunc adapts a plain function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, sub *domain.Submission) error

// Submit calls f(ctx, sub).
func (f SubmitterFunc) Submit(ctx context.Context, sub *domain.Submission) error {
	return f(ctx, sub)
}

// SubmissionFetcher reads a stored submission back by id.
// Submitters that keep their output expose one so the contract suite can verify them.
type SubmissionFetcher func(ctx context.Context, id string) (*domain.Submission, error)
