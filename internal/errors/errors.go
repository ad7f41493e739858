// Package errors attaches a stable code to startup and wiring failures so
// the binaries can report what kind of problem stopped them.
package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap adds context to err, keeping the code of an AppError already in the chain
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: GetCode(err), Message: message, Cause: err}
}

// WithCode wraps err under the given code
func WithCode(code string, err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// GetCode returns the code of the outermost AppError in the chain, or
// CodeInternalError
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// Predefined error codes
const (
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeDatasetUnavailable = "DATASET_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}
