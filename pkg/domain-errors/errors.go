// Package derrors provides the single flat error value used across domain,
// service, and transport layers. Every failure carries a machine-readable Code
// so callers branch on kind instead of concrete types.
package derrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code discriminates error kinds across the whole application.
type Code string

const (
	// CodeValidation marks a field invariant violation at construction or update.
	CodeValidation Code = "validation"
	// CodeNotFound marks a lookup for an entity id that does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict marks natural-key uniqueness violations and illegal
	// status transitions.
	CodeConflict Code = "conflict"
	// CodeBadRequest marks malformed input and invalid references to
	// parent entities.
	CodeBadRequest Code = "bad_request"
	// CodeForbidden marks rejected credentials on protected routes.
	CodeForbidden Code = "forbidden"
	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is the flat domain error value. No subclass hierarchy: the Code field
// is the discriminant and Message carries the human-readable detail.
type Error struct {
	Code    Code
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.err
}

// New builds a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// original for errors.Is/As chains.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, err: err}
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// non-domain errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the transport-level status the API contract
// promises: validation failures are 422, conflicts (including illegal
// transitions) are 409.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
