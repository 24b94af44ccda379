// Package errors provides structured error types for storyboard.
//
// Errors carry a machine-readable code so the CLI and the HTTP API can map
// them to exit statuses and response codes consistently.
//
// # Error Codes
//
// Codes follow the taxonomy of the render engine:
//   - INVALID_*: payload or argument validation failures (recoverable, reported to the user)
//   - CONFIG / TEMPLATE_NOT_FOUND: integration mistakes that must fail loudly
//   - UPLOAD_FAILED / FETCH_FAILED / NETWORK_ERROR: edge I/O, recovered by rollback
//   - INTERNAL_ERROR: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidColor, "invalid hex color: %s", v)
//	if errors.Is(err, errors.ErrCodeInvalidColor) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeUpload, origErr, "upload logo %s", name)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"
	ErrCodeInvalidPayload  Code = "INVALID_PAYLOAD"

	// Configuration errors
	ErrCodeConfig           Code = "CONFIG"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"
	ErrCodeNotFound         Code = "NOT_FOUND"

	// Edge I/O errors
	ErrCodeUpload  Code = "UPLOAD_FAILED"
	ErrCodeFetch   Code = "FETCH_FAILED"
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeStore   Code = "STORE_FAILED"

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

// IsConfiguration reports whether err signals a developer or integration
// mistake rather than a runtime condition.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeConfig, ErrCodeInvalidTemplate, ErrCodeTemplateNotFound:
		return true
	}
	return false
}

// IsRecoverable reports whether err comes from edge I/O that callers are
// expected to roll back from.
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeUpload, ErrCodeFetch, ErrCodeNetwork, ErrCodeStore:
		return true
	}
	return false
}
