package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the class of an operation failure. The values mirror the
// callable error codes the clients already understand.
type Code string

const (
	Unauthenticated    Code = "unauthenticated"
	InvalidArgument    Code = "invalid-argument"
	NotFound           Code = "not-found"
	AlreadyExists      Code = "already-exists"
	FailedPrecondition Code = "failed-precondition"
	PermissionDenied   Code = "permission-denied"
	Internal           Code = "internal"
)

// Error is a typed operation error. Message is safe to return to callers;
// the cause, if any, is kept for logging only.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an error with the given code and caller-visible message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap turns an unexpected failure into an internal error, keeping the
// original cause attached without exposing it verbatim.
func Wrap(err error, message string) *Error {
	return &Error{Code: Internal, Message: message, cause: err}
}

// From returns err as an *Error, wrapping anything untyped as internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(err, "internal error")
}

// CodeOf extracts the code of err, defaulting to Internal.
func CodeOf(err error) Code {
	return From(err).Code
}

// HTTPStatus maps a code to the status used by the HTTP surface.
func HTTPStatus(code Code) int {
	switch code {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidArgument:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists:
		return http.StatusConflict
	case FailedPrecondition:
		return http.StatusPreconditionFailed
	case PermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
