// Package mounterr defines the error taxonomy shared by the mount table loader
// and the path resolver.
package mounterr

import "errors"

// Error represents a domain error from loading the mount table or resolving a path.
//
// Callers branch on Code; Message and Path are for humans.
type Error struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path is the path or mount-table location related to the error (if applicable)
	Path string

	// Err is the underlying cause, if any
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode represents the category of an Error.
type ErrorCode int

const (
	// ErrInput indicates an empty or non-absolute input path
	ErrInput ErrorCode = iota + 1

	// ErrNotFound indicates no mount entry matched, not even the root.
	// Only reachable when the loaded table has no "/" entry.
	ErrNotFound

	// ErrParse indicates the mount table could not be read from any source
	ErrParse

	// ErrFormat indicates a malformed fsname or union branch list, or a
	// computed path that is not contained in its mount point
	ErrFormat

	// ErrState indicates an operation ran before a table was loaded, or the
	// canonical hostname was unavailable when building a local origin
	ErrState
)

func (c ErrorCode) String() string {
	switch c {
	case ErrInput:
		return "InputError"
	case ErrNotFound:
		return "NotFoundError"
	case ErrParse:
		return "ParseError"
	case ErrFormat:
		return "FormatError"
	case ErrState:
		return "StateError"
	default:
		return "UnknownError"
	}
}

// New creates an Error without an underlying cause.
func New(code ErrorCode, message, path string) *Error {
	return &Error{Code: code, Message: message, Path: path}
}

// Wrap creates an Error around an underlying cause.
func Wrap(code ErrorCode, err error, message, path string) *Error {
	return &Error{Code: code, Message: message, Path: path, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or 0.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
