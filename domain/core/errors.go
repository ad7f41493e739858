package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Prediction errors
	ErrPredictionRejected = errors.New("prediction request rejected")

	// Dataset errors
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	ErrDatasetEmpty       = fmt.Errorf("%w: no data rows", ErrDatasetUnavailable)
	ErrColumnNotFound     = errors.New("column not found")
	ErrNotNumeric         = errors.New("column is not numeric")

	// Navigation errors
	ErrPageNotFound = errors.New("page not found")
)

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
}

func NewNotNumericError(column string) error {
	return fmt.Errorf("%w: %s", ErrNotNumeric, column)
}

// Error checking helpers
func IsDatasetError(err error) bool {
	return errors.Is(err, ErrDatasetUnavailable) ||
		errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrNotNumeric)
}
