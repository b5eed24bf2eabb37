package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil && e.Err.Error() != e.Message {
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

// Is reports whether target is an *Error sharing the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
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
	ErrNotFound            = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrInvalidInput        = New("INVALID_INPUT", http.StatusUnprocessableEntity, "invalid input")
	ErrValidation          = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrUpstream            = New("UPSTREAM_FAILURE", http.StatusInternalServerError, "Something went wrong")
	ErrUpstreamUnavailable = New("UPSTREAM_UNAVAILABLE", http.StatusInternalServerError, "upstream service unavailable")
	ErrInternal            = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// NotFound reports a missing resource identified by key.
func NotFound(message string) *Error {
	return Clone(ErrNotFound, message)
}

// InvalidInput reports a malformed identifier or field value.
func InvalidInput(message string) *Error {
	return Clone(ErrInvalidInput, message)
}

// UpstreamFailure is returned when a remote lookup required by a write fails.
// The wrapped cause keeps its own code and status so callers still see whether
// the referenced entity was missing or its identifier malformed.
type UpstreamFailure struct {
	Resource string
	Key      string
	Err      error
}

// NewUpstreamFailure wraps a remote client error.
func NewUpstreamFailure(resource, key string, err error) *UpstreamFailure {
	return &UpstreamFailure{Resource: resource, Key: key, Err: err}
}

// Error returns the remote error message unchanged.
func (e *UpstreamFailure) Error() string {
	if e == nil || e.Err == nil {
		return "upstream failure"
	}
	return e.Err.Error()
}

// Unwrap returns the remote client error.
func (e *UpstreamFailure) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsUpstreamFailure reports whether err came from a failed remote lookup.
func IsUpstreamFailure(err error) bool {
	var uf *UpstreamFailure
	return errors.As(err, &uf)
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
