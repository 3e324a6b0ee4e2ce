package middleware

import "github.com/aretw0/stepform/pkg/domain"

// cloneSubmission copies sub so rewriting values never leaks back to the engine.
func cloneSubmission(sub *domain.Submission) *domain.Submission {
	cp := *sub
	cp.Draft = sub.Draft.Clone()
	cp.Summary = append([]domain.SummaryEntry(nil), sub.Summary...)
	return &cp
}

// rewrite replaces the value of field in both the draft and the summary.
func rewrite(sub *domain.Submission, field, value string) {
	if _, ok := sub.Draft[field]; ok {
		sub.Draft[field] = value
	}
	for i := range sub.Summary {
		if sub.Summary[i].Field == field {
			sub.Summary[i].Value = value
		}
	}
}
