package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single failure shape surfaced by the catalog client and
// stored as display state by the view models.
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

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors covering the client-side failure taxonomy.
var (
	// ErrUnauthenticated is raised before a network request is issued when no
	// credential is present. A request is never sent without a bearer token.
	ErrUnauthenticated = New("UNAUTHENTICATED", http.StatusUnauthorized, "not logged in")

	// ErrServerUnreachable marks a transport-level failure, distinct from an
	// application-level rejection.
	ErrServerUnreachable = New("SERVER_UNREACHABLE", 0, "cannot connect to server; make sure the backend is running")

	// ErrRequestFailed marks a non-success HTTP response. The message comes
	// from the response body when one can be parsed.
	ErrRequestFailed = New("REQUEST_FAILED", http.StatusBadRequest, "request failed")

	// ErrClassNotFound is the distinct condition for a class id missing from
	// the class list, separate from any network failure.
	ErrClassNotFound = New("CLASS_NOT_FOUND", http.StatusNotFound, "class not found")

	ErrValidation     = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotImplemented = New("NOT_IMPLEMENTED", http.StatusNotImplemented, "not implemented")
	ErrInternal       = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal error")
)

// RequestFailed builds a REQUEST_FAILED error with a server-supplied message.
func RequestFailed(status int, message string) *Error {
	if message == "" {
		message = ErrRequestFailed.Message
	}
	return &Error{Code: ErrRequestFailed.Code, Status: status, Message: message}
}

// Unreachable wraps a transport error into the SERVER_UNREACHABLE condition.
func Unreachable(err error) *Error {
	return Wrap(err, ErrServerUnreachable.Code, 0, ErrServerUnreachable.Message)
}

// IsUnreachable reports whether err is a transport-level failure.
func IsUnreachable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrServerUnreachable.Code
}

// IsUnauthenticated reports whether err was raised for a missing credential.
func IsUnauthenticated(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrUnauthenticated.Code
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
