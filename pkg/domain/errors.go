package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownField is returned when a transition references a field the form does not define.
var ErrUnknownField = errors.New("unknown field")

// ErrNotOnReviewStep is returned when submit is attempted before the review step.
var ErrNotOnReviewStep = errors.New("submit is only allowed on the review step")

// ErrHandOff is returned when a valid draft could not be delivered to the submitter.
var ErrHandOff = errors.New("submission hand-off failed")
