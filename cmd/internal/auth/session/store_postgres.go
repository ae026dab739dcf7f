package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (tally.sessions).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed session store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a new session row.
func (s *PostgresStore) Create(ctx context.Context, sess Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tally.sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, sess.ID, sess.UserID, sess.ExpiresAt)
	return err
}

// Get loads a session and its owner in one round trip.
// The inner join doubles as a liveness check: a session whose user was
// deleted behaves exactly like a missing session.
func (s *PostgresStore) Get(ctx context.Context, id string) (Session, User, error) {
	var (
		row  Session
		user User
	)

	err := s.pool.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.expires_at, u.id, u.username
		FROM tally.sessions s
		JOIN tally.users u ON u.id = s.user_id
		WHERE s.id = $1
	`, id).Scan(
		&row.ID,
		&row.UserID,
		&row.ExpiresAt,
		&user.ID,
		&user.Username,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, User{}, ErrNotFound
	}
	if err != nil {
		return Session{}, User{}, err
	}

	return row, user, nil
}

// UpdateExpiry moves a session's expiry (sliding renewal).
func (s *PostgresStore) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE tally.sessions
		SET expires_at = $2
		WHERE id = $1
	`, id, expiresAt)
	return err
}

// Delete removes a session row (idempotent).
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM tally.sessions
		WHERE id = $1
	`, id)
	return err
}

// DeleteAllForUser removes every session of a user (idempotent).
func (s *PostgresStore) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM tally.sessions
		WHERE user_id = $1
	`, userID)
	return err
}

// DeleteAllForUserExcept removes every session of a user but keepID.
func (s *PostgresStore) DeleteAllForUserExcept(ctx context.Context, userID, keepID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM tally.sessions
		WHERE user_id = $1 AND id <> $2
	`, userID, keepID)
	return err
}

// DeleteExpired removes all rows past their expiry.
func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ct, err := s.pool.Exec(ctx, `
		DELETE FROM tally.sessions
		WHERE expires_at <= $1
	`, now)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
