package milestone

import "context"

// Store abstracts milestone persistence. Owner scoping goes through the
// commitment, as with time logs.
type Store interface {
	// Create inserts a milestone. A duplicate commitment+threshold pair
	// surfaces as ErrExists.
	Create(ctx context.Context, m Milestone) error

	Get(ctx context.Context, id, userID string) (Milestone, error)

	// ListForCommitment returns a commitment's milestones, threshold ascending.
	ListForCommitment(ctx context.Context, commitmentID string) ([]Milestone, error)

	// UpdateSynthesis replaces the user's written synthesis.
	UpdateSynthesis(ctx context.Context, id, userID, synthesis string) error

	// SetFeedback attaches (or replaces) generated coach feedback.
	SetFeedback(ctx context.Context, id, feedback string) error

	// DeleteForCommitment removes all milestones of a commitment. Used when
	// the goal changes and the ladder positions lose their meaning.
	DeleteForCommitment(ctx context.Context, commitmentID string) error
}
