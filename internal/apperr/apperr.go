// Package apperr defines the error taxonomy shared by the stores, the
// middleware and the HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInternal        Kind = "INTERNAL"
	KindConflict        Kind = "CONFLICT"
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
)

// Error carries a Kind, a message that is safe to show to clients and an
// optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Conflict(message string) *Error        { return New(KindConflict, message, nil) }
func InvalidArgument(message string) *Error { return New(KindInvalidArgument, message, nil) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message, nil) }
func Forbidden(message string) *Error       { return New(KindForbidden, message, nil) }
func NotFound(message string) *Error        { return New(KindNotFound, message, nil) }

// Internal wraps an unexpected failure. The message is never shown to
// clients.
func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the Kind of err. Errors outside the taxonomy are Internal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a Kind to its response status. Duplicate usernames are
// reported as 400 on the wire.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindConflict, KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
