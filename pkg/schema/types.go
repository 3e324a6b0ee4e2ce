package schema

import (
	"strings"

	"github.com/aretw0/stepform/pkg/domain"
)

// Rule identifies which validation rule a field violated.
type Rule string

const (
	RuleRequired  Rule = "required"
	RuleMinLength Rule = "min_length"
	RulePattern   Rule = "pattern"
	RuleEquals    Rule = "equals"
)

// Common patterns.
const (
	EmailPattern  = `^\S+@\S+\.\S+$`
	DigitsPattern = `^\d+$`
)

// Field declares one input of the form and the rules its value must satisfy.
type Field struct {
	ID          string           `json:"id" yaml:"id" mapstructure:"id"`
	Label       string           `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Kind        domain.FieldKind `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Required    bool             `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
	MinLength   int              `json:"min_length,omitempty" yaml:"min_length,omitempty" mapstructure:"min_length"`
	Pattern     string           `json:"pattern,omitempty" yaml:"pattern,omitempty" mapstructure:"pattern"`
	EqualsField string           `json:"equals,omitempty" yaml:"equals,omitempty" mapstructure:"equals"`
	Messages    map[Rule]string  `json:"messages,omitempty" yaml:"messages,omitempty" mapstructure:"messages"`
	// Secret values are masked by renderers (summary, terminal echo).
	Secret bool `json:"secret,omitempty" yaml:"secret,omitempty" mapstructure:"secret"`
}

// DisplayLabel returns the label, falling back to the id.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

// InputKind returns the declared kind or text.
func (f Field) InputKind() domain.FieldKind {
	if f.Kind == "" {
		return domain.KindText
	}
	return f.Kind
}

// IsSecret reports whether the value must be masked.
func (f Field) IsSecret() bool {
	return f.Secret || f.Kind == domain.KindPassword
}

func (f Field) message(rule Rule, fallback string) string {
	if msg, ok := f.Messages[rule]; ok && msg != "" {
		return msg
	}
	return fallback
}

func (f Field) lowerLabel() string {
	return strings.ToLower(f.DisplayLabel())
}

// Step groups the fields shown together as one page.
type Step struct {
	Index  int      `json:"index" yaml:"index" mapstructure:"index"`
	Title  string   `json:"title" yaml:"title" mapstructure:"title"`
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty" mapstructure:"fields"`
}

// IsReview reports whether the step is field-less.
func (s Step) IsReview() bool {
	return len(s.Fields) == 0
}

// Form is the complete declaration of a multi-step form.
type Form struct {
	ID     string  `json:"id" yaml:"id" mapstructure:"id"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Fields []Field `json:"fields" yaml:"fields" mapstructure:"fields"`
	Steps  []Step  `json:"steps" yaml:"steps" mapstructure:"steps"`
}

// Field looks up a field definition by id.
func (f Form) Field(id string) (Field, bool) {
	for _, def := range f.Fields {
		if def.ID == id {
			return def, true
		}
	}
	return Field{}, false
}

// Step looks up a step by its 1-based index.
func (f Form) Step(index int) (Step, bool) {
	if index < 1 || index > len(f.Steps) {
		return Step{}, false
	}
	return f.Steps[index-1], true
}

// ReviewStep returns the index of the terminal review step (N).
func (f Form) ReviewStep() int {
	return len(f.Steps)
}

// FieldIDs returns every field id in step-then-field order.
func (f Form) FieldIDs() []string {
	var ids []string
	for _, step := range f.Steps {
		ids = append(ids, step.Fields...)
	}
	return ids
}

// StepOf returns the index of the step owning the field, or 0.
func (f Form) StepOf(fieldID string) int {
	for _, step := range f.Steps {
		for _, id := range step.Fields {
			if id == fieldID {
				return step.Index
			}
		}
	}
	return 0
}

// Dependents returns the fields whose equality rule references fieldID.
func (f Form) Dependents(fieldID string) []Field {
	var out []Field
	for _, def := range f.Fields {
		if def.EqualsField == fieldID {
			out = append(out, def)
		}
	}
	return out
}
