package errors

import "fmt"

type baseError struct {
	message string
}

func (e *baseError) Error() string {
	return e.message
}

// ValidationError represents a validation error (HTTP 400)
type ValidationError struct {
	baseError
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{baseError{message: message}}
}

func NewValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{baseError{message: fmt.Sprintf(format, args...)}}
}

// UnauthorizedError represents an authentication error (HTTP 401)
type UnauthorizedError struct {
	baseError
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{baseError{message: message}}
}

// NotFoundError represents a not found error (HTTP 404)
type NotFoundError struct {
	baseError
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{baseError{message: message}}
}

// UnprocessableError represents input that is well formed but cannot be classified (HTTP 422)
type UnprocessableError struct {
	baseError
}

func NewUnprocessableError(message string) *UnprocessableError {
	return &UnprocessableError{baseError{message: message}}
}

// InternalError represents an internal server error (HTTP 500)
type InternalError struct {
	baseError
}

func NewInternalError(message string) *InternalError {
	return &InternalError{baseError{message: message}}
}

// ServiceUnavailableError represents a service unavailable error (HTTP 503)
type ServiceUnavailableError struct {
	baseError
}

func NewServiceUnavailableError(message string) *ServiceUnavailableError {
	return &ServiceUnavailableError{baseError{message: message}}
}
