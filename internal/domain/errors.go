package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	// ErrValidation is returned when a value violates a field invariant
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an operation targets a missing record
	ErrNotFound = errors.New("record not found")

	// ErrReferentialIntegrity is returned when a HeroPower references a
	// missing Hero or Power, or carries no reference at all
	ErrReferentialIntegrity = errors.New("referential integrity violation")
)

// Validation messages
const (
	MsgDescriptionTooShort = "Description must be at least 20 characters long."
	MsgInvalidStrength     = "Strength must be 'Strong', 'Weak', or 'Average'."
)

// ValidationError reports a rejected field assignment
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error returns the user-facing message
func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a missing record
type NotFoundError struct {
	Kind string
	ID   int64
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind string, id int64) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// Is reports whether target is ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ReferentialIntegrityError reports a foreign key that is missing or points
// at a record that does not exist
type ReferentialIntegrityError struct {
	Field  string
	ID     int64
	Reason string
}

// NewReferentialIntegrityError creates a new ReferentialIntegrityError
func NewReferentialIntegrityError(field string, id int64, reason string) *ReferentialIntegrityError {
	return &ReferentialIntegrityError{Field: field, ID: id, Reason: reason}
}

func (e *ReferentialIntegrityError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %d: %s", e.Field, e.ID, e.Reason)
}

// Is reports whether target is ErrReferentialIntegrity
func (e *ReferentialIntegrityError) Is(target error) bool {
	return target == ErrReferentialIntegrity
}

// IsValidation returns true if err is or wraps a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if err is or wraps a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsReferentialIntegrity returns true if err is or wraps a referential integrity error
func IsReferentialIntegrity(err error) bool {
	return errors.Is(err, ErrReferentialIntegrity)
}
