package domain

import "errors"

var (
	// ErrNotFound is returned when a user or recipe does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("conflict")
	// ErrUnauthenticated is returned when no identity could be resolved for a request
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrValidation is returned when a request payload is missing required data
	ErrValidation = errors.New("validation failed")
)
