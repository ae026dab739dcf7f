package identity

import (
	"context"
	"time"
)

// User is tally's canonical account principal.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// Credentials couples a user with its stored password hash.
// Only login and password-change flows should touch the hash; everything else
// works with User.
type Credentials struct {
	User         User
	PasswordHash string
}

// CreateUserInput describes a registration request.
// Password is the plain text; the store hashes it before persisting.
type CreateUserInput struct {
	Username string
	Password string
	Now      time.Time
}

// Store is the account persistence boundary.
type Store interface {
	// CreateUser inserts a new account. Username uniqueness is enforced on the
	// normalized form; violations surface as ConflictError.
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)

	GetByID(ctx context.Context, userID string) (User, error)

	// GetByUsername resolves an account by username (normalized before lookup)
	// and returns the stored password hash for verification.
	GetByUsername(ctx context.Context, username string) (Credentials, error)

	// GetCredentials returns the account plus stored hash by id.
	GetCredentials(ctx context.Context, userID string) (Credentials, error)

	UpdatePassword(ctx context.Context, userID, passwordHash string, now time.Time) error

	// DeleteUser removes the account. Sessions, commitments, time logs and
	// milestones are removed by FK cascade.
	DeleteUser(ctx context.Context, userID string) error
}
