package dsl

import (
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/schema"
)

// FieldBuilder provides a fluent API for configuring a field.
type FieldBuilder struct {
	field schema.Field
	step  *StepBuilder
}

// Label sets the human-readable label.
func (f *FieldBuilder) Label(label string) *FieldBuilder {
	f.field.Label = label
	return f
}

// Kind sets the input widget hint.
func (f *FieldBuilder) Kind(kind domain.FieldKind) *FieldBuilder {
	f.field.Kind = kind
	return f
}

// Required marks the field as mandatory.
func (f *FieldBuilder) Required() *FieldBuilder {
	f.field.Required = true
	return f
}

// MinLength sets the minimum number of characters.
func (f *FieldBuilder) MinLength(n int) *FieldBuilder {
	f.field.MinLength = n
	return f
}

// Pattern sets the regular expression the value must match.
func (f *FieldBuilder) Pattern(pattern string) *FieldBuilder {
	f.field.Pattern = pattern
	return f
}

// Email is shorthand for the common email pattern.
func (f *FieldBuilder) Email() *FieldBuilder {
	return f.Pattern(schema.EmailPattern)
}

// Digits requires a digits-only value of at least n characters.
func (f *FieldBuilder) Digits(n int) *FieldBuilder {
	return f.Pattern(schema.DigitsPattern).MinLength(n)
}

// Equals requires the value to match another field (e.g. password confirmation).
func (f *FieldBuilder) Equals(fieldID string) *FieldBuilder {
	f.field.EqualsField = fieldID
	return f
}

// Secret masks the value in summaries.
func (f *FieldBuilder) Secret() *FieldBuilder {
	f.field.Secret = true
	return f
}

// Message overrides the message for a rule.
func (f *FieldBuilder) Message(rule schema.Rule, msg string) *FieldBuilder {
	if f.field.Messages == nil {
		f.field.Messages = make(map[schema.Rule]string)
	}
	f.field.Messages[rule] = msg
	return f
}

// Field appends another field to the same step.
func (f *FieldBuilder) Field(id string) *FieldBuilder {
	return f.step.Field(id)
}

// Step starts the next step.
func (f *FieldBuilder) Step(title string) *StepBuilder {
	return f.step.builder.Step(title)
}

// Review sets the review step title and returns the form builder.
func (f *FieldBuilder) Review(title string) *Builder {
	return f.step.builder.Review(title)
}

// Build is shorthand for building the whole form.
func (f *FieldBuilder) Build() (schema.Form, error) {
	return f.step.builder.Build()
}

// MustBuild is shorthand for building the whole form, panicking on error.
func (f *FieldBuilder) MustBuild() schema.Form {
	return f.step.builder.MustBuild()
}
