package timelog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (tally.time_logs).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed time log store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a new log row.
func (s *PostgresStore) Create(ctx context.Context, l TimeLog) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tally.time_logs (
			id, commitment_id, duration_minutes, date, reflection, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, l.ID, l.CommitmentID, l.DurationMinutes, l.Date, l.Reflection, l.CreatedAt)
	return err
}

// Get loads one log, scoped to the owner via the commitment join.
func (s *PostgresStore) Get(ctx context.Context, id, userID string) (TimeLog, error) {
	var l TimeLog

	err := s.pool.QueryRow(ctx, `
		SELECT l.id, l.commitment_id, l.duration_minutes, l.date, l.reflection, l.created_at
		FROM tally.time_logs l
		JOIN tally.commitments c ON c.id = l.commitment_id
		WHERE l.id = $1 AND c.user_id = $2
	`, id, userID).Scan(
		&l.ID, &l.CommitmentID, &l.DurationMinutes, &l.Date, &l.Reflection, &l.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return TimeLog{}, ErrNotFound
	}
	if err != nil {
		return TimeLog{}, err
	}
	return l, nil
}

// ListForCommitment returns a commitment's logs, most recent date first.
func (s *PostgresStore) ListForCommitment(ctx context.Context, commitmentID string) ([]TimeLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, commitment_id, duration_minutes, date, reflection, created_at
		FROM tally.time_logs
		WHERE commitment_id = $1
		ORDER BY date DESC, created_at DESC
	`, commitmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TimeLog, 0)
	for rows.Next() {
		var l TimeLog
		if err := rows.Scan(&l.ID, &l.CommitmentID, &l.DurationMinutes, &l.Date, &l.Reflection, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListForUser returns the user's full history joined with commitment info.
func (s *PostgresStore) ListForUser(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT l.id, l.commitment_id, l.duration_minutes, l.date, l.reflection, l.created_at,
		       c.title, c.category
		FROM tally.time_logs l
		JOIN tally.commitments c ON c.id = l.commitment_id
		WHERE c.user_id = $1
		ORDER BY l.date DESC, l.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.CommitmentID, &e.DurationMinutes, &e.Date, &e.Reflection, &e.CreatedAt,
			&e.CommitmentTitle, &e.CommitmentCategory,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SumMinutesForCommitment totals the logged minutes of one commitment.
func (s *PostgresStore) SumMinutesForCommitment(ctx context.Context, commitmentID string) (int, error) {
	var total int
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration_minutes), 0)::int
		FROM tally.time_logs
		WHERE commitment_id = $1
	`, commitmentID).Scan(&total)
	return total, err
}

// Update persists duration, date and reflection, scoped to the owner.
func (s *PostgresStore) Update(ctx context.Context, id, userID string, durationMinutes int, date time.Time, reflection string) error {
	ct, err := s.pool.Exec(ctx, `
		UPDATE tally.time_logs l
		SET duration_minutes = $3, date = $4, reflection = $5
		FROM tally.commitments c
		WHERE l.id = $1 AND c.id = l.commitment_id AND c.user_id = $2
	`, id, userID, durationMinutes, date, reflection)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a log, scoped to the owner.
func (s *PostgresStore) Delete(ctx context.Context, id, userID string) error {
	ct, err := s.pool.Exec(ctx, `
		DELETE FROM tally.time_logs l
		USING tally.commitments c
		WHERE l.id = $1 AND c.id = l.commitment_id AND c.user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecentReflections returns up to limit reflection texts, newest first.
func (s *PostgresStore) RecentReflections(ctx context.Context, commitmentID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx, `
		SELECT reflection
		FROM tally.time_logs
		WHERE commitment_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2
	`, commitmentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, limit)
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
