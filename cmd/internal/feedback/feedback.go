// Package feedback generates short coaching notes for completed milestones.
// The production generator calls the Gemini REST API; deployments without an
// API key fall back to Noop, which reports ErrUnavailable.
package feedback

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when no generator is configured or the upstream
// service cannot be reached after retries.
var ErrUnavailable = errors.New("feedback generator unavailable")

// Params carries everything the generator needs to write feedback for one
// milestone.
type Params struct {
	CommitmentTitle   string
	Category          *string
	GoalHours         int
	HoursThreshold    int
	UserSynthesis     string
	RecentReflections []string
}

// Generator produces coach feedback text for a milestone.
type Generator interface {
	Generate(ctx context.Context, p Params) (string, error)
}

// Noop is the stand-in generator used when no API key is configured.
type Noop struct{}

func (Noop) Generate(ctx context.Context, p Params) (string, error) {
	return "", ErrUnavailable
}
