package errors

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Mapper maps domain errors to HTTP status codes
type Mapper struct {
	logger zerolog.Logger
}

// NewMapper creates a new error mapper
func NewMapper(logger zerolog.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// MapErrorToHTTP maps an error to HTTP status code and message
func (m *Mapper) MapErrorToHTTP(err error) (int, string) {
	if err == nil {
		return fasthttp.StatusOK, ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fasthttp.StatusBadRequest, err.Error()
	}

	var unauthorizedErr *UnauthorizedError
	if errors.As(err, &unauthorizedErr) {
		return fasthttp.StatusUnauthorized, err.Error()
	}

	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return fasthttp.StatusNotFound, err.Error()
	}

	var unprocessableErr *UnprocessableError
	if errors.As(err, &unprocessableErr) {
		return fasthttp.StatusUnprocessableEntity, err.Error()
	}

	var serviceUnavailableErr *ServiceUnavailableError
	if errors.As(err, &serviceUnavailableErr) {
		return fasthttp.StatusServiceUnavailable, err.Error()
	}

	var internalErr *InternalError
	if errors.As(err, &internalErr) {
		m.logger.Error().Err(err).Msg("internal server error")
		return fasthttp.StatusInternalServerError, err.Error()
	}

	m.logger.Error().Err(err).Msg("unknown error")
	return fasthttp.StatusInternalServerError, "internal server error"
}
