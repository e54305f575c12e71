package alert

import "errors"

var (
	// ErrNotFound is returned when no alert exists for the given id.
	ErrNotFound = errors.New("alert: not found")

	// ErrInvalidInput is returned when a write carries a malformed field.
	ErrInvalidInput = errors.New("alert: invalid input")

	// ErrInvalidLimit is returned when a page limit falls outside
	// [MinLimit, MaxLimit].
	ErrInvalidLimit = errors.New("alert: invalid limit")

	// ErrInvalidCursor is returned when a cursor does not name an existing
	// alert.
	ErrInvalidCursor = errors.New("alert: invalid cursor")
)
