package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/stepform/pkg/domain"
)

// Outbox implements ports.Submitter by keeping submissions in memory.
// Safe for concurrent use.
type Outbox struct {
	mu          sync.RWMutex
	submissions []*domain.Submission
}

// NewOutbox creates an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{}
}

// Submit records a copy of the submission.
func (o *Outbox) Submit(ctx context.Context, sub *domain.Submission) error {
	copied := *sub
	copied.Draft = sub.Draft.Clone()
	copied.Summary = append([]domain.SummaryEntry(nil), sub.Summary...)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.submissions = append(o.submissions, &copied)
	return nil
}

// Get returns the submission with the given id.
func (o *Outbox) Get(ctx context.Context, id string) (*domain.Submission, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, sub := range o.submissions {
		if sub.ID == id {
			return sub, nil
		}
	}
	return nil, fmt.Errorf("submission %q not found", id)
}

// All returns every recorded submission in arrival order.
func (o *Outbox) All() []*domain.Submission {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]*domain.Submission(nil), o.submissions...)
}

// Len returns the number of recorded submissions.
func (o *Outbox) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.submissions)
}
