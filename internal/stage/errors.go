// Package stage classifies pipeline failures by the stage that produced them.
package stage

import (
	"errors"
	"fmt"
)

var (
	ErrInputParse    = errors.New("cannot parse date expression")
	ErrProcessLaunch = errors.New("cannot launch timew")
	ErrEncoding      = errors.New("invalid UTF-8 from timew")
	ErrExportFailure = errors.New("timew reported an error")
	ErrDecode        = errors.New("cannot decode export")
	ErrSink          = errors.New("cannot write calendar")
	ErrConfig        = errors.New("invalid configuration")
)

// Error wraps a failure with its stage kind and the offending input.
type Error struct {
	Kind  error
	Input string
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Input != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Input)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New returns a stage error of the given kind.
func New(kind error, input string, err error) error {
	return &Error{Kind: kind, Input: input, Err: err}
}

// Errorf returns a stage error of the given kind with a formatted cause.
func Errorf(kind error, input, format string, args ...any) error {
	return &Error{Kind: kind, Input: input, Err: fmt.Errorf(format, args...)}
}
