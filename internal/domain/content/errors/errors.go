package errors

import (
	pkgerrors "github.com/Conte777/fanscraper/pkg/errors"
)

var (
	ErrUnknownContentType  = pkgerrors.NewUnprocessableError("api content type not found")
	ErrUnknownKey          = pkgerrors.NewUnprocessableError("content key not found")
	ErrUnknownResponseType = pkgerrors.NewUnprocessableError("response type has no content key")
)
