// Package errors provides structured error types for liegraph.
//
// Every fatal condition of a run carries a machine-readable [Code] so that
// the CLI, the HTTP service and tests can tell a broken snapshot apart from
// a bad flag or an internal failure:
//   - LEVEL_MISMATCH, CROSS_LEVEL_MISMATCH, DUPLICATE_REPORT: reconciliation
//     invariant violations (the snapshot is internally inconsistent)
//   - UNKNOWN_STATE: an adjacency state that has no rendering color
//   - INVALID_*: input validation failures
//   - FILE_NOT_FOUND, INTERNAL_ERROR: environment and unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLevelMismatch, "node %s reports level %s", name, lvl)
//	if errors.Is(err, errors.ErrCodeLevelMismatch) {
//	    // Handle the violation
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidSnapshot, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Reconciliation invariant violations
	ErrCodeLevelMismatch      Code = "LEVEL_MISMATCH"
	ErrCodeCrossLevelMismatch Code = "CROSS_LEVEL_MISMATCH"
	ErrCodeDuplicateReport    Code = "DUPLICATE_REPORT"

	// Rendering errors
	ErrCodeUnknownState Code = "UNKNOWN_STATE"

	// Input validation errors
	ErrCodeInvalidSnapshot Code = "INVALID_SNAPSHOT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Environment errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
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

// IsViolation reports whether err is one of the reconciliation invariant
// violations, i.e. the snapshot itself is inconsistent.
func IsViolation(err error) bool {
	switch GetCode(err) {
	case ErrCodeLevelMismatch, ErrCodeCrossLevelMismatch, ErrCodeDuplicateReport, ErrCodeUnknownState:
		return true
	}
	return false
}
