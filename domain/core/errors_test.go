package core

import (
	"errors"
	"testing"
)

func TestValidationErrorClassification(t *testing.T) {
	cases := []error{
		ErrInsufficientLevels,
		ErrColumnOutOfRange,
		ErrUnknownColumn,
		ErrInvalidCount,
		ErrEmptyLevel,
		NewValidationError("numeric1", "missing"),
		NewCountError("pos", 3, "-1", "negative"),
	}
	for _, err := range cases {
		if !IsValidationError(err) {
			t.Errorf("expected %v to be a validation error", err)
		}
		if IsDegenerateTableError(err) {
			t.Errorf("did not expect %v to be a degenerate-table error", err)
		}
	}

	err := NewDegenerateTableError("C", "zero row sum")
	if !IsDegenerateTableError(err) {
		t.Errorf("expected degenerate-table error, got %v", err)
	}
	if IsValidationError(err) {
		t.Errorf("degenerate table must not be a validation error")
	}
	if !errors.Is(NewCountError("pos", 1, "x", "not numeric"), ErrInvalidCount) {
		t.Error("count error should wrap ErrInvalidCount")
	}
}
