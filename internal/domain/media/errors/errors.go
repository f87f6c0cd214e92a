package errors

import (
	pkgerrors "github.com/Conte777/fanscraper/pkg/errors"
)

var (
	ErrNoMediaTypeFound = pkgerrors.NewUnprocessableError("no media type found")
)
