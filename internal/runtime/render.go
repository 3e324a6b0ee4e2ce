package runtime

import (
	"github.com/aretw0/stepform/pkg/domain"
)

// RenderStep describes the active step for a front-end.
// The same procedure renders every step; the review step carries the summary.
func (e *Engine) RenderStep(state *domain.State) domain.StepView {
	total := e.Steps()
	step, _ := e.form.Step(state.CurrentStep)

	view := domain.StepView{
		SessionID:  state.SessionID,
		Index:      state.CurrentStep,
		Total:      total,
		Title:      step.Title,
		Titles:     make([]string, 0, total),
		Review:     state.CurrentStep == total,
		CanRetreat: state.CurrentStep > 1,
		CanAdvance: state.CurrentStep < total,
		CanSubmit:  state.CurrentStep == total,
	}
	for _, s := range e.form.Steps {
		view.Titles = append(view.Titles, s.Title)
	}

	for _, id := range step.Fields {
		def, _ := e.form.Field(id)
		view.Fields = append(view.Fields, domain.FieldView{
			ID:       id,
			Label:    def.DisplayLabel(),
			Kind:     def.InputKind(),
			Required: def.Required,
			Value:    state.Draft[id],
			Error:    state.Errors[id],
			Secret:   def.IsSecret(),
		})
	}
	if view.Review {
		view.Summary = e.Summary(state.Draft)
	}
	return view
}
