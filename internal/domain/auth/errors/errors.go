package errors

import (
	"fmt"

	pkgerrors "github.com/Conte777/fanscraper/pkg/errors"
)

var (
	ErrAuthenticationFailed = pkgerrors.NewUnauthorizedError("authentication failed")
	ErrNetworkUnavailable   = pkgerrors.NewServiceUnavailableError("network unavailable")
	ErrSessionNotFound      = pkgerrors.NewNotFoundError("auth session not found")
	ErrInvalidCredentials   = pkgerrors.NewValidationError("invalid credentials")
)

// ResourceReleaseError reports a requester that failed to close.
// The registry entry is removed regardless.
type ResourceReleaseError struct {
	ID  int64
	Err error
}

func (e *ResourceReleaseError) Error() string {
	return fmt.Sprintf("release auth %d: %v", e.ID, e.Err)
}

func (e *ResourceReleaseError) Unwrap() error {
	return e.Err
}
