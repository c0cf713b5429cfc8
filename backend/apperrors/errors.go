// Package apperrors holds the error taxonomy shared by the store, the
// aggregator and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for attempts that do not exist or belong to
// another owner. Callers cannot tell the two apart.
var ErrNotFound = errors.New("attempt not found")

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StoreError wraps a persistence failure. The original message is kept for
// diagnostics.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// WrapStore returns nil for a nil err.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
