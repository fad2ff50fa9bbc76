package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors abort the whole analysis before any test runs
	ErrValidation         = errors.New("validation failed")
	ErrInsufficientLevels = fmt.Errorf("%w: categorical variable needs at least 2 distinct levels", ErrValidation)
	ErrColumnOutOfRange   = fmt.Errorf("%w: column out of range", ErrValidation)
	ErrUnknownColumn      = fmt.Errorf("%w: unknown column", ErrValidation)
	ErrInvalidCount       = fmt.Errorf("%w: invalid count", ErrValidation)
	ErrEmptyLevel         = fmt.Errorf("%w: empty categorical value", ErrValidation)

	// Per-level errors are recovered locally by skipping the level
	ErrDegenerateTable  = errors.New("degenerate contingency table")
	ErrUnsupportedShape = errors.New("unsupported contingency table shape")
)

// NewValidationError wraps ErrValidation with the offending field
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

// NewCountError reports a numeric cell that is not a non-negative integer count
func NewCountError(column string, row int, raw string, reason string) error {
	return fmt.Errorf("%w in column %q row %d (%q): %s", ErrInvalidCount, column, row, raw, reason)
}

// NewDegenerateTableError reports a level whose table has a zero margin
func NewDegenerateTableError(level string, reason string) error {
	return fmt.Errorf("%w for level %q: %s", ErrDegenerateTable, level, reason)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsDegenerateTableError(err error) bool {
	return errors.Is(err, ErrDegenerateTable)
}
