package domain

import "errors"

// Sentinel errors shared across aggregates.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the acting user lacks the required
	// membership or role. Callers wrap it with a diagnostic message.
	ErrForbidden = errors.New("access denied")
	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
)
