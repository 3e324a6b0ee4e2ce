// Package registry keeps named form definitions so commands and servers can
// refer to a form by name instead of a schema file.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/stepform/pkg/schema"
)

// ErrFormNotFound is returned when no form is registered under a name.
var ErrFormNotFound = errors.New("form not found")

// FormFunction builds a fresh form definition on every call.
type FormFunction func() schema.Form

// Registry manages the available forms.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]FormFunction
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		forms: make(map[string]FormFunction),
	}
}

// Register adds a form to the registry.
// If a form with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn FormFunction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms[name] = fn
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.forms[name]
	return ok
}

// Get builds the form registered under name and checks its integrity.
func (r *Registry) Get(name string) (schema.Form, error) {
	r.mu.RLock()
	fn, ok := r.forms[name]
	r.mu.RUnlock()

	if !ok {
		return schema.Form{}, fmt.Errorf("%w: %s", ErrFormNotFound, name)
	}
	form := fn()
	if err := form.Validate(); err != nil {
		return schema.Form{}, fmt.Errorf("form %s: %w", name, err)
	}
	return form, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.forms))
	for name := range r.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
