package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepform/pkg/domain"
)

// StepMarkdown renders the header of a step, its pending errors and,
// on the review step, the summary table.
func StepMarkdown(view domain.StepView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", view.Title)
	fmt.Fprintf(&b, "_Step %d of %d_\n\n", view.Index, view.Total)

	if !view.Review {
		for _, f := range view.Fields {
			if f.Error != "" {
				fmt.Fprintf(&b, "> **%s**: %s\n", f.Label, f.Error)
			}
		}
		return b.String()
	}

	b.WriteString("| Field | Value |\n|---|---|\n")
	for _, e := range view.Summary {
		fmt.Fprintf(&b, "| %s | %s |\n", e.Label, escapeCell(e.DisplayValue()))
	}
	return b.String()
}

func escapeCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
