package identity

import "errors"

// Sentinel errors (stable for errors.Is and for mapping to API status codes).
var (
	// ErrNotFound is returned when no user matches the given id or email.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when creating a user whose email already exists.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrInvalidInput is returned for malformed store input.
	ErrInvalidInput = errors.New("invalid input")
)
