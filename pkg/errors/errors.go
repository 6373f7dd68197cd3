// Package errors defines the error types shared across the CFG engine's
// surrounding tooling (loader, CLI, config). The engine package itself
// never returns these — per its failure semantics it only ever returns
// sentinels from the scoring/query surface — so AppError is reserved for
// construction, loading, and configuration failures.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown           = "UNKNOWN_ERROR"
	CodeConstructError    = "CONSTRUCT_ERROR"
	CodeInvalidPayload    = "INVALID_PAYLOAD"
	CodeAggregatorUnknown = "AGGREGATOR_UNKNOWN"
	CodeLoadError         = "LOAD_ERROR"
	CodeStorageError      = "STORAGE_ERROR"
	CodeDecodeError       = "DECODE_ERROR"
	CodeConfigError       = "CONFIG_ERROR"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances.
var (
	ErrConstructError    = New(CodeConstructError, "failed to construct control flow graph")
	ErrInvalidPayload    = New(CodeInvalidPayload, "invalid construction payload")
	ErrAggregatorUnknown = New(CodeAggregatorUnknown, "unknown score aggregator")
	ErrLoadError         = New(CodeLoadError, "failed to load construction payload")
	ErrStorageError      = New(CodeStorageError, "storage backend error")
	ErrDecodeError       = New(CodeDecodeError, "failed to decode construction payload")
	ErrConfigError       = New(CodeConfigError, "configuration error")
)

// IsConstructError checks if the error is a construction error.
func IsConstructError(err error) bool {
	return errors.Is(err, ErrConstructError)
}

// IsLoadError checks if the error is a load error.
func IsLoadError(err error) bool {
	return errors.Is(err, ErrLoadError)
}

// IsStorageError checks if the error is a storage error.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageError)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
