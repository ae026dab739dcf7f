package commitment

import "context"

// Store abstracts commitment persistence. Every read and write is scoped to
// the owning user; a wrong owner behaves exactly like a missing row.
type Store interface {
	Create(ctx context.Context, c Commitment) error

	Get(ctx context.Context, id, userID string) (Commitment, error)

	// ListWithProgress returns the user's commitments (newest first) with the
	// summed minutes of their time logs.
	ListWithProgress(ctx context.Context, userID string) ([]Progress, error)

	// Update persists the editable fields (title, category, goal, active flag,
	// updated_at) of c, matched by ID+UserID. Returns ErrNotFound if no row
	// matched.
	Update(ctx context.Context, c Commitment) error

	// Delete removes a commitment; logs and milestones go with it.
	Delete(ctx context.Context, id, userID string) error
}
