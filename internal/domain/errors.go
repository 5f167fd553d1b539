package domain

import "errors"

var (
	// ErrInvalidOperation is returned when a mutation is not permitted: changing a
	// default tag, or deleting a tag or holding that does not exist.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotFound is returned by mutations that expect an existing entity.
	// Query operations report a missing entity with a nil or empty result instead.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when holding input violates field constraints.
	ErrValidation = errors.New("validation failed")
)
