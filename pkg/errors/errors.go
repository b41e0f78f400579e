// Package errors provides structured error types for the nodewire codec.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, HTTP API, and library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes split into two severity classes:
//   - Fatal: detected before any host mutation (MALFORMED_DOCUMENT,
//     UNSUPPORTED_VERSION). The whole operation aborts with no state change.
//   - Per-item: discovered during a destructive rebuild (UNKNOWN_NODE_TYPE,
//     DANGLING_LINK, ...). These are collected into a rebuild report and
//     never abort the remaining reconstruction.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeShapeMismatch, "expected %d components, got %d", 3, 2)
//	if errors.Is(err, errors.ErrCodeShapeMismatch) {
//	    // Keep the socket's built-in default
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedDocument, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Fatal structural errors, surfaced before any host mutation.
	ErrCodeMalformedDocument  Code = "MALFORMED_DOCUMENT"
	ErrCodeUnsupportedVersion Code = "UNSUPPORTED_VERSION"

	// Per-item rebuild errors, downgraded to report entries.
	ErrCodeUnknownNodeType  Code = "UNKNOWN_NODE_TYPE"
	ErrCodeDanglingLink     Code = "DANGLING_LINK"
	ErrCodeLinkRejected     Code = "LINK_REJECTED"
	ErrCodePropertyRejected Code = "PROPERTY_REJECTED"
	ErrCodeShapeMismatch    Code = "SHAPE_MISMATCH"
	ErrCodeAliasNotFound    Code = "ALIAS_NOT_FOUND"
	ErrCodeAssetNotFound    Code = "ASSET_NOT_FOUND"

	// General errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
	ErrCodeUnsupported  Code = "UNSUPPORTED"
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

// IsFatal reports whether err carries one of the structural codes that
// abort an import before any host mutation.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeMalformedDocument, ErrCodeUnsupportedVersion:
		return true
	}
	return false
}
