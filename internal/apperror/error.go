// Package apperror carries the error taxonomy shared by every core
// operation. Each error knows its kind, the HTTP status the boundary
// answers with and the detail string returned to the caller verbatim.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error
type Kind int

const (
	KindInternal             Kind = iota // Anything unexpected, storage failures included
	KindUnauthenticated                  // No, unknown or expired session; bad webhook signature
	KindForbidden                        // Authenticated but the role filter does not match
	KindNotFound                         // Entity absent
	KindConflict                         // Uniqueness violation
	KindBadRequest                       // Invalid pagination or malformed input
	KindAlreadyAuthenticated             // Login attempted while a session is active
)

var kindNames = map[Kind]string{
	KindInternal:             "internal",
	KindUnauthenticated:      "unauthenticated",
	KindForbidden:            "forbidden",
	KindNotFound:             "not_found",
	KindConflict:             "conflict",
	KindBadRequest:           "bad_request",
	KindAlreadyAuthenticated: "already_authenticated",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Status returns the default HTTP status for the kind
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBadRequest:
		return http.StatusBadRequest
	case KindAlreadyAuthenticated:
		return http.StatusSeeOther
	default:
		return http.StatusInternalServerError
	}
}

// Error is the single error value every core operation returns
type Error struct {
	Kind   Kind   // Error class
	Code   int    // HTTP status code
	Detail string // Human readable detail, returned verbatim
	Err    error  // Underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Kind, e.Code, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Code, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error with the kind's default status
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Code: kind.Status(), Detail: detail}
}

// WithCode overrides the HTTP status, keeping the kind
func (e *Error) WithCode(code int) *Error {
	e.Code = code
	return e
}

func Unauthenticated(detail string) *Error { return New(KindUnauthenticated, detail) }
func Forbidden(detail string) *Error       { return New(KindForbidden, detail) }
func NotFound(detail string) *Error        { return New(KindNotFound, detail) }
func Conflict(detail string) *Error        { return New(KindConflict, detail) }
func BadRequest(detail string) *Error      { return New(KindBadRequest, detail) }

// Internal wraps an unexpected failure. The detail exposes the cause text,
// which is what callers of the service have always received.
func Internal(err error) *Error {
	return &Error{
		Kind:   KindInternal,
		Code:   http.StatusInternalServerError,
		Detail: fmt.Sprintf("Oops, something went wrong! %v", err),
		Err:    err,
	}
}

// From extracts an *Error, wrapping anything else as Internal
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Is reports whether err is an application error of the given kind
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
