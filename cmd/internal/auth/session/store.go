package session

import (
	"context"
	"time"
)

// Session is one authenticated client context.
type Session struct {
	// ID is the digest of the client token (see DeriveID), never the token itself.
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// User is the session-facing view of the owning account.
type User struct {
	ID       string
	Username string
}

// Store abstracts persistence for session state.
type Store interface {
	// Create inserts a new session row.
	Create(ctx context.Context, s Session) error

	// Get loads a session and its owning user. Returns ErrNotFound when the
	// id matches no row (or the owning user is gone).
	Get(ctx context.Context, id string) (Session, User, error)

	// UpdateExpiry moves a session's expiry (sliding renewal).
	UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error

	// Delete removes a session row. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteAllForUser removes every session of a user.
	DeleteAllForUser(ctx context.Context, userID string) error

	// DeleteAllForUserExcept removes every session of a user but keepID.
	DeleteAllForUserExcept(ctx context.Context, userID, keepID string) error

	// DeleteExpired removes all rows with expires_at <= now and reports how
	// many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
