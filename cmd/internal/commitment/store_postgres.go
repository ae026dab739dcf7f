package commitment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (tally.commitments).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed commitment store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a new commitment row.
func (s *PostgresStore) Create(ctx context.Context, c Commitment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tally.commitments (
			id, user_id, title, category, goal_hours, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.UserID, c.Title, c.Category, c.GoalHours, c.IsActive, c.CreatedAt, c.UpdatedAt)
	return err
}

// Get loads one commitment scoped to its owner.
func (s *PostgresStore) Get(ctx context.Context, id, userID string) (Commitment, error) {
	var c Commitment

	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, title, category, goal_hours, is_active, created_at, updated_at
		FROM tally.commitments
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&c.ID, &c.UserID, &c.Title, &c.Category, &c.GoalHours, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Commitment{}, ErrNotFound
	}
	if err != nil {
		return Commitment{}, err
	}
	return c, nil
}

// ListWithProgress returns the user's commitments with summed log minutes,
// newest first.
func (s *PostgresStore) ListWithProgress(ctx context.Context, userID string) ([]Progress, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.user_id, c.title, c.category, c.goal_hours, c.is_active,
		       c.created_at, c.updated_at,
		       COALESCE(SUM(l.duration_minutes), 0)::int
		FROM tally.commitments c
		LEFT JOIN tally.time_logs l ON l.commitment_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Progress, 0)
	for rows.Next() {
		var p Progress
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Title, &p.Category, &p.GoalHours, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt, &p.TotalMinutes,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update persists the editable fields, matched by ID+UserID.
func (s *PostgresStore) Update(ctx context.Context, c Commitment) error {
	ct, err := s.pool.Exec(ctx, `
		UPDATE tally.commitments
		SET title = $3, category = $4, goal_hours = $5, is_active = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`, c.ID, c.UserID, c.Title, c.Category, c.GoalHours, c.IsActive, c.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a commitment; FK cascades take its logs and milestones.
func (s *PostgresStore) Delete(ctx context.Context, id, userID string) error {
	ct, err := s.pool.Exec(ctx, `
		DELETE FROM tally.commitments
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
