package exam

import (
	"errors"
	"fmt"
)

// ErrorKind classifies request failures so the HTTP layer can pick a
// status code without string matching.
type ErrorKind int

const (
	KindConfig ErrorKind = iota + 1
	KindValidation
	KindExtraction
	KindUpstream
	KindParse
	KindUnavailable
)

// Error carries a kind alongside the message and an optional cause.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// Errf builds a classified error, formatting like fmt.Errorf. A trailing
// %w verb wraps the cause into Err.
func Errf(kind ErrorKind, format string, args ...interface{}) *Error {
	wrapped := fmt.Errorf(format, args...)
	return &Error{Kind: kind, Msg: wrapped.Error(), Err: errors.Unwrap(wrapped)}
}

// KindOf extracts the kind from anywhere in err's chain, or zero when the
// error is unclassified.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
