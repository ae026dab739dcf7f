package milestone

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (tally.milestones).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed milestone store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a milestone row. The commitment+threshold unique constraint
// maps to ErrExists.
func (s *PostgresStore) Create(ctx context.Context, m Milestone) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tally.milestones (
			id, commitment_id, hours_threshold, user_synthesis, ai_feedback, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.CommitmentID, m.HoursThreshold, m.UserSynthesis, m.AIFeedback, m.CompletedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrExists
		}
		return err
	}
	return nil
}

// Get loads one milestone, scoped to the owner via the commitment join.
func (s *PostgresStore) Get(ctx context.Context, id, userID string) (Milestone, error) {
	var m Milestone

	err := s.pool.QueryRow(ctx, `
		SELECT m.id, m.commitment_id, m.hours_threshold, m.user_synthesis, m.ai_feedback, m.completed_at
		FROM tally.milestones m
		JOIN tally.commitments c ON c.id = m.commitment_id
		WHERE m.id = $1 AND c.user_id = $2
	`, id, userID).Scan(
		&m.ID, &m.CommitmentID, &m.HoursThreshold, &m.UserSynthesis, &m.AIFeedback, &m.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Milestone{}, ErrNotFound
	}
	if err != nil {
		return Milestone{}, err
	}
	return m, nil
}

// ListForCommitment returns milestones, threshold ascending.
func (s *PostgresStore) ListForCommitment(ctx context.Context, commitmentID string) ([]Milestone, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, commitment_id, hours_threshold, user_synthesis, ai_feedback, completed_at
		FROM tally.milestones
		WHERE commitment_id = $1
		ORDER BY hours_threshold ASC
	`, commitmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Milestone, 0)
	for rows.Next() {
		var m Milestone
		if err := rows.Scan(&m.ID, &m.CommitmentID, &m.HoursThreshold, &m.UserSynthesis, &m.AIFeedback, &m.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateSynthesis replaces the user's written synthesis, scoped to the owner.
func (s *PostgresStore) UpdateSynthesis(ctx context.Context, id, userID, synthesis string) error {
	ct, err := s.pool.Exec(ctx, `
		UPDATE tally.milestones m
		SET user_synthesis = $3
		FROM tally.commitments c
		WHERE m.id = $1 AND c.id = m.commitment_id AND c.user_id = $2
	`, id, userID, synthesis)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFeedback attaches generated coach feedback. Callers are expected to have
// checked ownership already (feedback is written right after Create or Get).
func (s *PostgresStore) SetFeedback(ctx context.Context, id, feedback string) error {
	ct, err := s.pool.Exec(ctx, `
		UPDATE tally.milestones
		SET ai_feedback = $2
		WHERE id = $1
	`, id, feedback)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteForCommitment removes all milestones of a commitment.
func (s *PostgresStore) DeleteForCommitment(ctx context.Context, commitmentID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM tally.milestones
		WHERE commitment_id = $1
	`, commitmentID)
	return err
}
