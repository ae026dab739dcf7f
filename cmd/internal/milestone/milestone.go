// Package milestone implements tally's hour-threshold milestones: when a
// commitment's logged hours cross a threshold, the user writes a synthesis of
// what they learned and can attach AI coach feedback to it.
package milestone

import (
	"strings"
	"time"

	"tally/cmd/identity/ids"
)

// Thresholds is the fixed ladder of milestone hours, ascending.
var Thresholds = []int{10, 25, 50, 100, 250, 500, 1000}

// Milestone is one completed threshold on a commitment.
type Milestone struct {
	ID             string
	CommitmentID   string
	HoursThreshold int
	UserSynthesis  string
	AIFeedback     *string
	CompletedAt    time.Time
}

// PendingThreshold returns the lowest crossed-but-uncompleted threshold for a
// commitment, given total logged minutes and the already completed thresholds.
// The second return is false when nothing is pending.
func PendingThreshold(totalMinutes int, completed []int) (int, bool) {
	done := make(map[int]bool, len(completed))
	for _, h := range completed {
		done[h] = true
	}

	hours := totalMinutes / 60
	for _, h := range Thresholds {
		if hours >= h && !done[h] {
			return h, true
		}
	}
	return 0, false
}

// ValidThreshold reports whether h is on the ladder.
func ValidThreshold(h int) bool {
	for _, t := range Thresholds {
		if t == h {
			return true
		}
	}
	return false
}

// New validates input and builds a milestone ready for Store.Create.
func New(commitmentID string, hoursThreshold int, synthesis string, now time.Time) (Milestone, error) {
	if !ValidThreshold(hoursThreshold) {
		return Milestone{}, ErrInvalidInput
	}

	synthesis = strings.TrimSpace(synthesis)
	if synthesis == "" {
		return Milestone{}, ErrInvalidInput
	}

	if now.IsZero() {
		now = time.Now().UTC()
	}
	id, err := ids.NewULID(now)
	if err != nil {
		return Milestone{}, err
	}

	return Milestone{
		ID:             id,
		CommitmentID:   commitmentID,
		HoursThreshold: hoursThreshold,
		UserSynthesis:  synthesis,
		CompletedAt:    now,
	}, nil
}
