package dsl

import (
	"fmt"

	"github.com/aretw0/stepform/pkg/schema"
)

// DefaultReviewTitle is used when Review is never called.
const DefaultReviewTitle = "Review"

// Builder manages the form construction.
type Builder struct {
	form        schema.Form
	steps       []*StepBuilder
	reviewTitle string
}

// New creates a new form builder.
func New(id string) *Builder {
	return &Builder{
		form:        schema.Form{ID: id},
		reviewTitle: DefaultReviewTitle,
	}
}

// Title sets the human-readable form title.
func (b *Builder) Title(title string) *Builder {
	b.form.Title = title
	return b
}

// Step appends a new field-owning step.
func (b *Builder) Step(title string) *StepBuilder {
	sb := &StepBuilder{
		step:    schema.Step{Index: len(b.steps) + 1, Title: title},
		builder: b,
	}
	b.steps = append(b.steps, sb)
	return sb
}

// Review sets the title of the terminal review step.
func (b *Builder) Review(title string) *Builder {
	b.reviewTitle = title
	return b
}

// Build assembles the form, appends the review step and validates the result.
func (b *Builder) Build() (schema.Form, error) {
	form := b.form
	form.Fields = nil
	form.Steps = nil

	for _, sb := range b.steps {
		step := sb.step
		step.Fields = nil
		for _, fb := range sb.fields {
			form.Fields = append(form.Fields, fb.field)
			step.Fields = append(step.Fields, fb.field.ID)
		}
		form.Steps = append(form.Steps, step)
	}
	form.Steps = append(form.Steps, schema.Step{
		Index: len(form.Steps) + 1,
		Title: b.reviewTitle,
	})

	if err := form.Validate(); err != nil {
		return schema.Form{}, fmt.Errorf("failed to build form %q: %w", form.ID, err)
	}
	return form, nil
}

// MustBuild is like Build but panics on an invalid form.
// Intended for package-level form declarations.
func (b *Builder) MustBuild() schema.Form {
	form, err := b.Build()
	if err != nil {
		panic(err)
	}
	return form
}

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step    schema.Step
	fields  []*FieldBuilder
	builder *Builder
}

// Field appends a field to the step.
func (s *StepBuilder) Field(id string) *FieldBuilder {
	fb := &FieldBuilder{
		field: schema.Field{ID: id},
		step:  s,
	}
	s.fields = append(s.fields, fb)
	return fb
}
