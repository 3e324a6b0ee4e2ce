// Package middleware decorates submission sinks with at-rest protection
// for field values: redaction and field-level encryption.
package middleware

import "github.com/aretw0/stepform/pkg/ports"

// Middleware allows wrapping a Submitter to add behavior.
type Middleware func(ports.Submitter) ports.Submitter

// Chain wraps s so that mws[0] sees the submission first.
func Chain(s ports.Submitter, mws ...Middleware) ports.Submitter {
	for i := len(mws) - 1; i >= 0; i-- {
		s = mws[i](s)
	}
	return s
}
