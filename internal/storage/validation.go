package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cedisense/cedisense/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrInvalidExpense   = errors.New("invalid expense")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateExpense validates a single expense before it is written.
func validateExpense(e *model.Expense) error {
	if e == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: missing user", ErrInvalidExpense)
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidExpense)
	}
	if e.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidExpense)
	}
	if !model.ValidCategory(e.Category) {
		return fmt.Errorf("%w: category %q is not a valid category", ErrInvalidExpense, e.Category)
	}
	if e.AIPredicted != nil && !model.ValidCategory(*e.AIPredicted) {
		return fmt.Errorf("%w: AI category %q is not a valid category", ErrInvalidExpense, *e.AIPredicted)
	}
	return nil
}
