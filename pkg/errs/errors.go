// Package errs defines the error kinds raised by the OpenADR 3 client.
//
// Failures reported by the VTN itself are not errors: they travel inside the
// response envelope as a Problem. Everything in this package means the call
// itself did not complete.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies why a call failed.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindConfiguration  Kind = "configuration"
	KindAuthentication Kind = "authentication"
	KindTransport      Kind = "transport"
	KindSerialization  Kind = "serialization"
)

// Error is the concrete error returned by the client.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "oadr3.CreateProgram"
	Field   string // offending field for validation errors
	Message string
	Err     error
}

// Error implements error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := string(e.Kind) + " error"
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: KindTransport})
// works without comparing messages.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Validation builds a validation error naming the offending field.
func Validation(field, format string, args ...any) *Error {
	return &Error{
		Kind:    KindValidation,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Configuration builds a configuration error.
func Configuration(field, format string, args ...any) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a kind and operation to err. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// WithOp returns err annotated with op. Non-*Error values are left untouched.
func WithOp(op string, err error) error {
	var e *Error
	if errors.As(err, &e) && e.Op == "" {
		cp := *e
		cp.Op = op
		return &cp
	}
	return err
}

// KindOf reports the kind of err, or "" when err is not from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err (or anything it wraps) is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
