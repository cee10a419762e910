// Package apperror defines the coded error type shared by all scheduling
// services. Every rejected request carries a machine-readable code, a human
// message and an optional details map so that callers can find the offending
// field without parsing prose.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Error is the canonical application error.
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Status  int                    `json:"-"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithDetail attaches one key to the details map and returns the error for
// chaining.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause records the underlying error without exposing it to clients.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Validation builds a 400 error.
func Validation(code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

// Conflict builds a 409 error.
func Conflict(code, message string) *Error {
	return New(http.StatusConflict, code, message)
}

// NotFound builds a 404 error.
func NotFound(code, message string) *Error {
	return New(http.StatusNotFound, code, message)
}

// Internal builds a 500 error wrapping err.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, "INTERNAL_ERROR", message).WithCause(err)
}

// AsError extracts an *Error from err, if one is in the chain.
func AsError(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}

type errorBody struct {
	Error *Error `json:"error"`
}

// HTTPErrorHandler returns an echo error handler that renders *Error values
// as a structured JSON envelope and logs unexpected failures. echo.HTTPError
// values produced by the framework keep their status.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if ae, ok := AsError(err); ok {
			if ae.Status >= http.StatusInternalServerError {
				logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
			}
			_ = c.JSON(ae.Status, errorBody{Error: ae})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, errorBody{Error: New(he.Code, "HTTP_ERROR", msg)})
			return
		}

		logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
		_ = c.JSON(http.StatusInternalServerError,
			errorBody{Error: New(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")})
	}
}
