package schema

import "fmt"

// IntegrityError represents a single defect in a form declaration.
type IntegrityError struct {
	Key    string // Field id or step reference
	Reason string // Human-readable reason for failure
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// AggregateError represents multiple integrity failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d schema errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// IntegrityErrors returns all integrity errors if err is an AggregateError.
// Otherwise returns nil.
func IntegrityErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
