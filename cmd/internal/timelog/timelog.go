// Package timelog implements tally's practice log entries: a duration,
// a date, and a written reflection attached to a commitment.
package timelog

import (
	"strings"
	"time"

	"tally/cmd/identity/ids"
)

// TimeLog is one practice entry.
type TimeLog struct {
	ID              string
	CommitmentID    string
	DurationMinutes int
	Date            time.Time
	Reflection      string
	CreatedAt       time.Time
}

// Entry is a log joined with its commitment for history views.
type Entry struct {
	TimeLog
	CommitmentTitle    string
	CommitmentCategory *string
}

// Duration converts an hours+minutes form input into total minutes.
// Hours are bounded to a day (0-23), minutes to 0-59, and the total must be
// at least one minute.
func Duration(hours, minutes int) (int, error) {
	if hours < 0 || hours > 23 {
		return 0, ErrInvalidInput
	}
	if minutes < 0 || minutes > 59 {
		return 0, ErrInvalidInput
	}
	total := hours*60 + minutes
	if total < 1 {
		return 0, ErrInvalidInput
	}
	return total, nil
}

// NormalizeReflection trims the reflection and rejects an empty one. Logging
// time without writing anything down defeats the point of the journal.
func NormalizeReflection(reflection string) (string, error) {
	reflection = strings.TrimSpace(reflection)
	if reflection == "" {
		return "", ErrInvalidInput
	}
	return reflection, nil
}

// New validates input and builds a log entry ready for Store.Create.
func New(commitmentID string, hours, minutes int, date time.Time, reflection string, now time.Time) (TimeLog, error) {
	total, err := Duration(hours, minutes)
	if err != nil {
		return TimeLog{}, err
	}

	reflection, err = NormalizeReflection(reflection)
	if err != nil {
		return TimeLog{}, err
	}
	if date.IsZero() {
		return TimeLog{}, ErrInvalidInput
	}

	if now.IsZero() {
		now = time.Now().UTC()
	}
	id, err := ids.NewULID(now)
	if err != nil {
		return TimeLog{}, err
	}

	return TimeLog{
		ID:              id,
		CommitmentID:    commitmentID,
		DurationMinutes: total,
		Date:            date,
		Reflection:      reflection,
		CreatedAt:       now,
	}, nil
}
