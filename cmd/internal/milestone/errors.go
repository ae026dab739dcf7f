package milestone

import "errors"

var (
	// ErrNotFound is returned when no milestone matches the id for the owner.
	ErrNotFound = errors.New("milestone not found")

	// ErrExists is returned when the commitment already has a milestone for
	// the threshold.
	ErrExists = errors.New("milestone already exists")

	// ErrInvalidInput is returned for off-ladder thresholds or an empty
	// synthesis.
	ErrInvalidInput = errors.New("invalid milestone input")
)
