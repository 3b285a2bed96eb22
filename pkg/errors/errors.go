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

// Is reports whether target carries the same code, so cloned sentinels still match.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
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
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid credentials")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusBadRequest, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	// Client-side outcomes. Status carries the HTTP status observed, when any.
	ErrRejected       = New("REJECTED", http.StatusBadRequest, "request rejected")
	ErrSessionExpired = New("SESSION_EXPIRED", http.StatusUnauthorized, "Session expired. Please log in again.")
	ErrNoSession      = New("NO_SESSION", http.StatusUnauthorized, "not logged in")
	ErrTransport      = New("TRANSPORT_ERROR", 0, "request failed")
)

// Kind buckets an error for presentation.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindRejected
	KindSession
	KindTransport
)

// Category maps an error onto its presentation bucket.
func Category(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if !errors.As(err, &e) {
		return KindTransport
	}
	switch e.Code {
	case ErrValidation.Code:
		return KindValidation
	case ErrRejected.Code, ErrInvalidCredentials.Code, ErrConflict.Code, ErrForbidden.Code:
		return KindRejected
	case ErrSessionExpired.Code, ErrNoSession.Code, ErrUnauthorized.Code:
		return KindSession
	case ErrTransport.Code:
		return KindTransport
	default:
		return KindUnknown
	}
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
