package session

import "errors"

var (
	// ErrNotFound is returned by stores when no session matches the given id.
	// Service.Validate converts it into nil results; it never reaches the API.
	ErrNotFound = errors.New("session not found")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
