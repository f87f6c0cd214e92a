package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField   = errors.New("missing required field")
	ErrInvalidPayload = errors.New("invalid subscription payload")
)

// MissingFieldError names the first required key absent from a payload
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("subscription: missing required field %q", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
