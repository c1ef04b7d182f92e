// Package apperror holds the error taxonomy every handler reports through.
package apperror

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

// Error is a failure that maps onto an HTTP status and a client-safe message.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

// ValidationFields carries per-field messages alongside the summary.
func ValidationFields(message string, details map[string]string) *Error {
	e := Validation(message)
	e.Details = details
	return e
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusBadRequest, Message: message}
}

// Credentials is the login failure; it is a 400 like the other form errors.
func Credentials(message string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusBadRequest, Message: message}
}

// Unauthorized is a missing, invalid, expired or revoked session.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "Internal Server Error", Err: err}
}

// From converts any error into an *Error. Unknown errors become Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
