// Package apperr defines the error type used for user-facing failures
package apperr

import (
	"errors"
	"fmt"
)

// Error is an application error with a message that is safe to show to the
// user and an optional underlying cause.
type Error struct {
	Cause   error
	Message string
	tmpl    string
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same message template so
// that formatted and wrapped copies still match their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Message == e.Message || t.template() == e.template()
}

func (e *Error) template() string {
	if e.tmpl != "" {
		return e.tmpl
	}

	return e.Message
}

// Fmt returns a copy of the error with its message formatted using args.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(e.Message, args...),
		Cause:   e.Cause,
		tmpl:    e.template(),
	}
}

// Wrap returns a copy of the error that wraps cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{
		Message: e.Message,
		Cause:   cause,
		tmpl:    e.template(),
	}
}
