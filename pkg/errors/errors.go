// Package errors provides structured error types for riverlabel.
//
// Every failure in the placement pipeline is terminal for the request that
// caused it: there is no retry and no partial result. What callers need is
// the ability to tell failure kinds apart, so this package attaches a
// machine-readable code to each error:
//
//   - INVALID_*: caller-correctable input problems (bad coordinates, empty
//     label, font size out of range)
//   - DEGENERATE_GEOMETRY, EMPTY_INTERIOR: polygons that cannot produce a
//     usable interior
//   - GRID_TOO_LARGE: the rasterization would exceed the cell ceiling; raised
//     before any expensive work starts
//   - NOT_FOUND, INTERNAL_ERROR: storage misses and unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCoordinates, "need at least 3 points, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidCoordinates) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "encode result")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes, grouped by failure kind.
const (
	// Input validation errors (caller-correctable).
	ErrCodeInvalidCoordinates Code = "INVALID_COORDINATES"
	ErrCodeInvalidLabel       Code = "INVALID_LABEL"
	ErrCodeInvalidFontSize    Code = "INVALID_FONT_SIZE"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	// Geometry errors (polygon yields no usable interior).
	ErrCodeDegenerateGeometry Code = "DEGENERATE_GEOMETRY"
	ErrCodeEmptyInterior      Code = "EMPTY_INTERIOR"

	// Resource errors (rejected before expensive computation).
	ErrCodeGridTooLarge Code = "GRID_TOO_LARGE"

	// Storage and internal errors.
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInput reports whether err is a caller-correctable input error.
func IsInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidCoordinates, ErrCodeInvalidLabel, ErrCodeInvalidFontSize,
		ErrCodeInvalidFormat, ErrCodeInvalidConfig:
		return true
	}
	return false
}

// IsGeometry reports whether err indicates a degenerate or empty polygon.
func IsGeometry(err error) bool {
	switch GetCode(err) {
	case ErrCodeDegenerateGeometry, ErrCodeEmptyInterior:
		return true
	}
	return false
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
