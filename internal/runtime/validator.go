package runtime

import "github.com/aretw0/stepform/pkg/schema"

// ValidateStep validates the fields owned by one step.
// Only failing fields are present in the result; the review step is always valid.
func (e *Engine) ValidateStep(index int, draft map[string]string) schema.Result {
	step, ok := e.form.Step(index)
	if !ok {
		return schema.Result{}
	}
	return schema.ValidateFields(e.form, draft, step.Fields...)
}

// ValidateAll validates every field of every step, cross-field rules included.
func (e *Engine) ValidateAll(draft map[string]string) schema.Result {
	return schema.ValidateFields(e.form, draft, e.form.FieldIDs()...)
}
