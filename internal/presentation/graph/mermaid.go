// Package graph draws a form's step table as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepform/pkg/schema"
)

// Overlay marks the position of a live form instance on the chart.
type Overlay struct {
	CurrentStep int
}

// GenerateMermaid produces a Mermaid flowchart of the form.
// Shapes:
// - Field step: [Rectangle] listing its field labels
// - Review step: [[Subroutine]]
// - Submission: ((Circle))
// Steps before the overlay's current step are styled as visited.
func GenerateMermaid(form schema.Form, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, step := range form.Steps {
		id := nodeID(step.Index)
		title := escapeLabel(step.Title)
		if step.IsReview() {
			fmt.Fprintf(&sb, "    %s[[\"%d. %s\"]]\n", id, step.Index, title)
			continue
		}
		labels := make([]string, 0, len(step.Fields))
		for _, fid := range step.Fields {
			def, _ := form.Field(fid)
			label := escapeLabel(def.DisplayLabel())
			if def.Required {
				label += "*"
			}
			labels = append(labels, label)
		}
		fmt.Fprintf(&sb, "    %s[\"%d. %s <br/> %s\"]\n", id, step.Index, title, strings.Join(labels, ", "))
	}

	for i := 1; i < len(form.Steps); i++ {
		from, to := nodeID(form.Steps[i-1].Index), nodeID(form.Steps[i].Index)
		fmt.Fprintf(&sb, "    %s -- next --> %s\n", from, to)
		fmt.Fprintf(&sb, "    %s -. back .-> %s\n", to, from)
	}
	if n := len(form.Steps); n > 0 {
		fmt.Fprintf(&sb, "    %s -- submit --> submitted((\"Submitted\"))\n", nodeID(form.Steps[n-1].Index))
	}

	if overlay != nil && overlay.CurrentStep > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, step := range form.Steps {
			switch {
			case step.Index < overlay.CurrentStep:
				fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(step.Index))
			case step.Index == overlay.CurrentStep:
				fmt.Fprintf(&sb, "    class %s current;\n", nodeID(step.Index))
			}
		}
	}

	return sb.String()
}

func nodeID(index int) string {
	return fmt.Sprintf("step_%d", index)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
