package timelog

import "errors"

var (
	// ErrNotFound is returned when no log matches the id for the given owner.
	ErrNotFound = errors.New("time log not found")

	// ErrInvalidInput is returned for durations, dates or reflections outside
	// the allowed bounds.
	ErrInvalidInput = errors.New("invalid time log input")
)
