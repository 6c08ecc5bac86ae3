package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed error with HTTP awareness. Errors produced while
// talking to the upstream backend carry the taxonomy the UI is expected to
// surface: connectivity, auth, validation (with per-field messages), not
// found, and upstream server failures.
type Error struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Err     error               `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrUnreachable  = New("UPSTREAM_UNREACHABLE", http.StatusBadGateway, "connection to the platform backend failed")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "login required")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "not permitted")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUpstream     = New("UPSTREAM_ERROR", http.StatusBadGateway, "the platform backend reported an error")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflict")
	ErrSessionGone  = New("SESSION_EXPIRED", http.StatusUnauthorized, "session expired, sign in again")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// Validation builds a field-keyed validation error. The most specific
// available message becomes the top-level one.
func Validation(message string, fields map[string][]string) *Error {
	e := Clone(ErrValidation, message)
	if len(fields) > 0 {
		e.Fields = fields
	}
	return e
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
