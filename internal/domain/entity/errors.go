package entity

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor is not authorized for the operation
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned when a required field is missing or malformed
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned on uniqueness violations
	ErrConflict = errors.New("conflict")

	// ErrInvalidState is returned when an operation is not allowed in the entity's current status
	ErrInvalidState = errors.New("invalid state")
)
