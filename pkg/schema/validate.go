package schema

import (
	"fmt"

	"github.com/aretw0/stepform/pkg/domain"
)

var knownKinds = map[domain.FieldKind]bool{
	"":                  true,
	domain.KindText:     true,
	domain.KindEmail:    true,
	domain.KindTel:      true,
	domain.KindPassword: true,
	domain.KindTextarea: true,
}

// Validate checks the integrity of the form declaration.
// Returns an *AggregateError with every defect found.
func (f Form) Validate() error {
	var errs []error
	add := func(key, format string, args ...any) {
		errs = append(errs, &IntegrityError{Key: key, Reason: fmt.Sprintf(format, args...)})
	}

	if f.ID == "" {
		add("form", "id is required")
	}

	// Fields
	ids := make(map[string]bool, len(f.Fields))
	for i, def := range f.Fields {
		if def.ID == "" {
			add(fmt.Sprintf("fields[%d]", i), "id is required")
			continue
		}
		if ids[def.ID] {
			add(def.ID, "duplicate field id")
		}
		ids[def.ID] = true

		if !knownKinds[def.Kind] {
			add(def.ID, "unknown kind %q", def.Kind)
		}
		if def.MinLength < 0 {
			add(def.ID, "min_length must not be negative")
		}
		if def.Pattern != "" {
			if _, err := CompilePattern(def.Pattern); err != nil {
				add(def.ID, "invalid pattern: %v", err)
			}
		}
	}
	for _, def := range f.Fields {
		if def.EqualsField == "" {
			continue
		}
		if def.EqualsField == def.ID {
			add(def.ID, "equals must reference another field")
		} else if !ids[def.EqualsField] {
			add(def.ID, "equals references unknown field %q", def.EqualsField)
		}
	}

	// Steps
	if len(f.Steps) < 2 {
		add("steps", "at least one field step and a review step are required")
	}
	owner := make(map[string]int, len(f.Fields))
	for i, step := range f.Steps {
		ref := fmt.Sprintf("steps[%d]", i)
		if step.Index != i+1 {
			add(ref, "index %d is not contiguous (want %d)", step.Index, i+1)
		}
		last := i == len(f.Steps)-1
		if last && !step.IsReview() {
			add(ref, "review step must not own fields")
		}
		if !last && step.IsReview() {
			add(ref, "only the final step may be field-less")
		}
		for _, id := range step.Fields {
			if !ids[id] {
				add(ref, "references unknown field %q", id)
				continue
			}
			if prev, seen := owner[id]; seen {
				add(id, "owned by steps %d and %d", prev, i+1)
				continue
			}
			owner[id] = i + 1
		}
	}
	for _, def := range f.Fields {
		if def.ID == "" {
			continue
		}
		if _, ok := owner[def.ID]; !ok {
			add(def.ID, "not assigned to any step")
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
