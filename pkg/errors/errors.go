// Package errors gives host-side failures a machine-readable [Code].
//
// The engine packages (tree, layout, render, interact) never fail. Errors
// start at the edges: sources, configuration, sinks, the pipeline and the
// CLI. Each edge returns an [*Error] when a caller may want to branch on
// the category, and plain fmt.Errorf wrapping otherwise.
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    ...
//	}
//
//	err = errors.Wrap(errors.ErrCodeSourceUnavailable, cause, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// Bad arguments, records or settings.
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// A source path is missing, or the source could not be read.
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"
	ErrCodeSourceUnavailable Code = "SOURCE_UNAVAILABLE"

	// A sink or external converter failed.
	ErrCodeRenderFailed Code = "RENDER_FAILED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Usage reports whether the code describes a mistake in what the user
// asked for, as opposed to a failure while doing it.
func (c Code) Usage() bool {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidConfig, ErrCodeInvalidPath:
		return true
	}
	return false
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code and
// cause, or err.Error() for any other error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExitCode maps an error to a process exit status: 0 for nil, 2 for usage
// mistakes and 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case GetCode(err).Usage():
		return 2
	default:
		return 1
	}
}
