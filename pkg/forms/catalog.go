package forms

import "github.com/aretw0/stepform/pkg/registry"

// Catalog returns a registry holding every built-in form by id.
func Catalog() *registry.Registry {
	r := registry.NewRegistry()
	r.Register("signup", Signup)
	r.Register("contact", Contact)
	return r
}
