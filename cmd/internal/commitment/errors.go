package commitment

import "errors"

var (
	// ErrNotFound is returned when no commitment matches the id for the given
	// owner. Ownership misses are indistinguishable from missing rows.
	ErrNotFound = errors.New("commitment not found")

	// ErrInvalidInput is returned for titles, categories or goals outside the
	// allowed bounds.
	ErrInvalidInput = errors.New("invalid commitment input")
)
