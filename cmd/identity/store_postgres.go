package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements account persistence over PostgreSQL.
//
// Design notes:
// - The pgx pool is owned by the caller; this store must NOT close it.
// - Schema/table identifiers are safely quoted to avoid SQL injection via identifiers.
// - Errors are mapped to identity sentinel kinds where appropriate.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the store (default "tally").
// The schema name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgIdentIsValid(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore with secure defaults.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "tally",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

// CreateUser validates, hashes and inserts a new account.
func (s *PostgresStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	username := strings.TrimSpace(in.Username)
	norm := NormalizeUsername(username)
	if err := ValidateUsername(norm); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(in.Password) == "" {
		return User{}, pgInvalid(op, "password is required")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	pwHash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}

	userID, err := NewULID(now)
	if err != nil {
		return User{}, err
	}

	users := pgIdent(s.schema, "users")

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+users+` (
		     id, username, username_norm, password_hash, created_at
		   ) VALUES ($1, $2, $3, $4, $5)`,
		userID,
		username,
		norm,
		pwHash,
		now,
	)
	if err != nil {
		if pgIsUniqueViolation(err) {
			return User{}, ConflictError{Op: op, Field: "username"}
		}
		return User{}, err
	}

	return User{ID: userID, Username: username, CreatedAt: now}, nil
}

// GetByID loads an account by id.
func (s *PostgresStore) GetByID(ctx context.Context, userID string) (User, error) {
	const op = "identity.GetByID"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, pgInvalid(op, "missing user_id")
	}

	users := pgIdent(s.schema, "users")

	var out User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, created_at FROM `+users+` WHERE id = $1`,
		userID,
	).Scan(&out.ID, &out.Username, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, NotFoundError{Op: op, Resource: "user"}
		}
		return User{}, err
	}
	return out, nil
}

// GetByUsername loads an account (with hash) by its normalized username.
func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (Credentials, error) {
	const op = "identity.GetByUsername"

	if s == nil || s.pool == nil {
		return Credentials{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}

	norm := NormalizeUsername(username)
	if norm == "" {
		return Credentials{}, pgInvalid(op, "missing username")
	}

	users := pgIdent(s.schema, "users")

	var out Credentials
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at
		   FROM `+users+`
		  WHERE username_norm = $1`,
		norm,
	).Scan(&out.User.ID, &out.User.Username, &out.PasswordHash, &out.User.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credentials{}, NotFoundError{Op: op, Resource: "user"}
		}
		return Credentials{}, err
	}
	return out, nil
}

// GetCredentials loads an account (with hash) by id.
func (s *PostgresStore) GetCredentials(ctx context.Context, userID string) (Credentials, error) {
	const op = "identity.GetCredentials"

	if s == nil || s.pool == nil {
		return Credentials{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return Credentials{}, pgInvalid(op, "missing user_id")
	}

	users := pgIdent(s.schema, "users")

	var out Credentials
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM `+users+` WHERE id = $1`,
		userID,
	).Scan(&out.User.ID, &out.User.Username, &out.PasswordHash, &out.User.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credentials{}, NotFoundError{Op: op, Resource: "user"}
		}
		return Credentials{}, err
	}
	return out, nil
}

// UpdatePassword replaces the stored hash. The hash must already be encoded
// (see HashPassword); this store never sees the plain password on update.
func (s *PostgresStore) UpdatePassword(ctx context.Context, userID, passwordHash string, now time.Time) error {
	const op = "identity.UpdatePassword"

	if s == nil || s.pool == nil {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(userID) == "" {
		return pgInvalid(op, "missing user_id")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return pgInvalid(op, "missing password_hash")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	users := pgIdent(s.schema, "users")

	ct, err := s.pool.Exec(ctx,
		`UPDATE `+users+` SET password_hash = $1 WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "user"}
	}
	return nil
}

// DeleteUser removes the account row; FK cascades take sessions, commitments,
// time logs and milestones with it.
func (s *PostgresStore) DeleteUser(ctx context.Context, userID string) error {
	const op = "identity.DeleteUser"

	if s == nil || s.pool == nil {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(userID) == "" {
		return pgInvalid(op, "missing user_id")
	}

	users := pgIdent(s.schema, "users")

	ct, err := s.pool.Exec(ctx,
		`DELETE FROM `+users+` WHERE id = $1`,
		userID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "user"}
	}
	return nil
}

// ---- helpers ----

// pgInvalid standardizes invalid input errors.
func pgInvalid(op, msg string) error {
	return OpError{Op: op, Kind: ErrInvalidInput, Msg: msg}
}

// pgIdentIsValid checks if a string is a safe Postgres identifier.
func pgIdentIsValid(s string) bool {
	return pgIdentRe.MatchString(s)
}

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func pgIsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" // unique_violation
}
