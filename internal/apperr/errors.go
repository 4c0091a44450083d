package apperr

import (
	"errors"
	"fmt"
)

// Invalid is returned when the input fails domain validation.
var Invalid = errors.New("invalid input")

// Conflict indicates a lost race on an atomic state change or a uniqueness conflict.
var Conflict = errors.New("conflict")

// NotFound indicates that the requested resource does not exist.
var NotFound = errors.New("not found")

// Forbidden indicates that the acting identity may not perform the operation.
var Forbidden = errors.New("forbidden")

// InvalidTransition indicates a delivery state change outside the allowed graph.
var InvalidTransition = errors.New("invalid state transition")

// Unavailable indicates that an upstream dependency (distance provider) failed or timed out.
var Unavailable = errors.New("upstream unavailable")

// ValidationError carries enough structure for a client to self-correct:
// the offending field and an example of the expected shape.
type ValidationError struct {
	Field   string
	Reason  string
	Example string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason, example string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Example: example}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes ValidationError match the Invalid sentinel via errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == Invalid
}
