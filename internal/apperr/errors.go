// Package apperr defines the coded errors returned by the codec, the adapter
// and the stores, and their mapping onto HTTP statuses.
package apperr

import "errors"

// Error carries a Code for callers and a message for people. Metadata names
// the offending field or value where one exists.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code, so errors.Is(err, New(code, ""))
// tests for a code anywhere in the chain.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New returns an error with no metadata.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata returns an error describing the rejected input.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	e := New(code, message)
	e.Metadata = metadata
	return e
}

// Wrap returns an error whose cause is err.
func Wrap(code Code, message string, err error) *Error {
	e := New(code, message)
	e.Cause = err
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	if e := (*Error)(nil); errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// HasCode reports whether err's chain contains an *Error with code.
func HasCode(err error, code Code) bool {
	return err != nil && errors.Is(err, &Error{Code: code})
}
