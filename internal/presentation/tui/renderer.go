package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepform/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// SubmissionMarkdown describes a submitted form grouped by step.
// Secret values are masked.
func SubmissionMarkdown(sub *domain.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Submitted %s\n", sub.FormID)
	fmt.Fprintf(&b, "\n_%s at %s_\n", sub.ID, sub.SubmittedAt.UTC().Format("2006-01-02 15:04:05 MST"))

	lastStep := -1
	for _, e := range sub.Summary {
		if e.Step != lastStep {
			fmt.Fprintf(&b, "\n## %s\n\n", e.StepTitle)
			lastStep = e.Step
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", e.Label, e.DisplayValue())
	}
	return b.String()
}
