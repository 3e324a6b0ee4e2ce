package runtime

import "github.com/aretw0/stepform/pkg/domain"

// Summary projects the draft into (label, value) rows in step-then-field order.
func (e *Engine) Summary(draft map[string]string) []domain.SummaryEntry {
	var entries []domain.SummaryEntry
	for _, step := range e.form.Steps {
		for _, id := range step.Fields {
			def, _ := e.form.Field(id)
			entries = append(entries, domain.SummaryEntry{
				Step:      step.Index,
				StepTitle: step.Title,
				Field:     id,
				Label:     def.DisplayLabel(),
				Value:     draft[id],
				Secret:    def.IsSecret(),
			})
		}
	}
	return entries
}
