package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a write violates a unique constraint,
	// e.g. a double community join or a second review for the same listing.
	ErrConflict = errors.New("duplicate entity")

	// ErrStateMismatch is returned when a conditional update matched no row
	// because the record's state changed under the caller. The service layer
	// re-reads to decide the precise error.
	ErrStateMismatch = errors.New("state changed concurrently")
)
