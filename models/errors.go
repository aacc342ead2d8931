package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a missing or malformed field; nothing was changed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an entity is absent or belongs to another owner.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyPaid is returned when paying a bill that is already paid.
	ErrAlreadyPaid = errors.New("bill is already paid")

	// ErrAlreadyFullyPaid is returned when adding a payment to a settled receivable.
	ErrAlreadyFullyPaid = errors.New("receivable is already fully paid")

	// ErrInvalidAmount is returned for non-positive payment amounts.
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrOverpayment is returned when a payment exceeds the remaining balance.
	ErrOverpayment = fmt.Errorf("%w: payment amount exceeds remaining balance", ErrInvalidAmount)
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
