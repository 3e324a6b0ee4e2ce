package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/ports"
)

// RedactedValue replaces redacted field values.
const RedactedValue = "***"

type piiMiddleware struct {
	next     ports.Submitter
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values of fields whose id
// matches one of the patterns. Empty values stay empty.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.Submitter) ports.Submitter {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Submit(ctx context.Context, sub *domain.Submission) error {
	masked := cloneSubmission(sub)
	for field, v := range sub.Draft {
		if v != "" && m.matches(field) {
			rewrite(masked, field, RedactedValue)
		}
	}
	return m.next.Submit(ctx, masked)
}

func (m *piiMiddleware) matches(field string) bool {
	for _, p := range m.patterns {
		if p.MatchString(field) {
			return true
		}
	}
	return false
}
