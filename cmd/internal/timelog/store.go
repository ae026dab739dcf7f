package timelog

import (
	"context"
	"time"
)

// Store abstracts log persistence. Logs have no user column of their own;
// ownership always goes through the commitment, so a wrong owner behaves
// exactly like a missing row.
type Store interface {
	Create(ctx context.Context, l TimeLog) error

	Get(ctx context.Context, id, userID string) (TimeLog, error)

	// ListForCommitment returns a commitment's logs, most recent date first
	// (creation time breaks ties).
	ListForCommitment(ctx context.Context, commitmentID string) ([]TimeLog, error)

	// ListForUser returns the user's full history across commitments, joined
	// with commitment title/category, most recent date first.
	ListForUser(ctx context.Context, userID string) ([]Entry, error)

	// SumMinutesForCommitment totals the logged minutes of one commitment.
	SumMinutesForCommitment(ctx context.Context, commitmentID string) (int, error)

	// Update persists duration, date and reflection, matched by id and owner.
	Update(ctx context.Context, id, userID string, durationMinutes int, date time.Time, reflection string) error

	Delete(ctx context.Context, id, userID string) error

	// RecentReflections returns up to limit reflection texts for a
	// commitment, newest first. Used as context for milestone feedback.
	RecentReflections(ctx context.Context, commitmentID string, limit int) ([]string, error)
}
