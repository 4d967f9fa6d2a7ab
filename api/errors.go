// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-mempool.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrOutOfMemory         = fmt.Errorf("out of memory")
	ErrInvalidArgument     = fmt.Errorf("invalid argument")
	ErrOutstandingHandles  = fmt.Errorf("handles still checked out")
	ErrAffinityUnsupported = fmt.Errorf("cpu affinity not supported")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeInvalidArgument ErrorCode = iota + 1
	ErrCodeOutOfMemory
	ErrCodeOutstandingHandles
	ErrCodeNotSupported
)

var codeSentinels = map[ErrorCode]error{
	ErrCodeInvalidArgument:    ErrInvalidArgument,
	ErrCodeOutOfMemory:        ErrOutOfMemory,
	ErrCodeOutstandingHandles: ErrOutstandingHandles,
	ErrCodeNotSupported:       ErrAffinityUnsupported,
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Is reports whether target is the sentinel for this error's code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Code == e.Code
	}
	s, ok := codeSentinels[e.Code]
	return ok && s == target
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
