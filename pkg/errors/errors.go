// Package errors provides structured error types for fbnet.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP server
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Missing files or type definitions
//   - MALFORMED_NETWORK: A network that violates the layout contract
//   - INTERNAL_ERROR: Unexpected internal errors
//
// Dangling connection references are deliberately not errors: layout drops
// the affected connection and carries on.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownRoot, "unsupported root element: %s", tag)
//	if errors.Is(err, errors.ErrCodeUnknownRoot) {
//	    // Handle unsupported document
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidXML, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidScale  Code = "INVALID_SCALE"

	// Document errors
	ErrCodeInvalidXML   Code = "INVALID_XML"
	ErrCodeUnknownRoot  Code = "UNKNOWN_ROOT"
	ErrCodeNotComposite Code = "NOT_COMPOSITE"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeTypeNotFound Code = "TYPE_NOT_FOUND"

	// Layout contract violations
	ErrCodeMalformedNetwork Code = "MALFORMED_NETWORK"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Is reports whether err has the given error code.
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

// HTTPStatus maps an error code to the status returned by the render server.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidScale,
		ErrCodeInvalidXML, ErrCodeUnknownRoot, ErrCodeNotComposite:
		return 400
	case ErrCodeUnsupported:
		return 415
	case ErrCodeMalformedNetwork:
		return 422
	default:
		return 500
	}
}
