package session

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service implements the high-level session operations for tally.
//
// It issues sessions, validates client tokens (with lazy expiry and sliding
// renewal), and supports per-session and per-user invalidation. All methods
// take the current time explicitly so boundary behavior is testable.
type Service struct {
	cfg   Config
	store Store
}

// NewService constructs a Service with the provided configuration and store.
func NewService(cfg Config, store Store) (*Service, error) {
	if store == nil {
		return nil, ErrConfig
	}
	if cfg.Lifetime <= 0 || cfg.RenewalFraction <= 0 || cfg.RenewalFraction >= 1 {
		return nil, ErrConfig
	}
	if cfg.TokenBytes < MinTokenBytes {
		return nil, ErrConfig
	}
	return &Service{cfg: cfg, store: store}, nil
}

// Config returns the service configuration (cookie helpers need it).
func (s *Service) Config() Config { return s.cfg }

// NewToken generates a fresh opaque token with the configured entropy.
func (s *Service) NewToken() (string, error) {
	return NewToken(s.cfg.TokenBytes)
}

// Create persists a new session for userID bound to tokenPlain and returns it.
// The token itself is never stored; only its digest (the session id).
func (s *Service) Create(ctx context.Context, now time.Time, tokenPlain, userID string) (Session, error) {
	sess := Session{
		ID:        DeriveID(tokenPlain),
		UserID:    userID,
		ExpiresAt: now.Add(s.cfg.Lifetime),
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return Session{}, err
	}
	metricIssued.Inc()
	return sess, nil
}

// Validate checks a client token and returns the session plus its owning user.
//
// Outcomes:
//   - unknown token, or token of a deleted user: (nil, nil, nil)
//   - expired session: the row is deleted (lazy expiry), then (nil, nil, nil)
//   - live session in the renewal window: expiry is reset to now+Lifetime and
//     the renewed session is returned
//   - live session otherwise: returned unchanged
//
// Only infrastructure failures produce a non-nil error.
func (s *Service) Validate(ctx context.Context, now time.Time, tokenPlain string) (*Session, *User, error) {
	tokenPlain = strings.TrimSpace(tokenPlain)
	// Basic sanity bounds to avoid hashing pathological inputs.
	if tokenPlain == "" || len(tokenPlain) > 4096 {
		metricValidations.WithLabelValues("miss").Inc()
		return nil, nil, nil
	}

	id := DeriveID(tokenPlain)

	row, user, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		metricValidations.WithLabelValues("miss").Inc()
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	// Lazy expiry: delete on read.
	if !row.ExpiresAt.After(now) {
		if err := s.store.Delete(ctx, id); err != nil {
			return nil, nil, err
		}
		metricValidations.WithLabelValues("expired").Inc()
		return nil, nil, nil
	}

	// Sliding renewal once less than the configured fraction of the lifetime remains.
	if row.ExpiresAt.Sub(now) < s.renewalCutoff() {
		row.ExpiresAt = now.Add(s.cfg.Lifetime)
		if err := s.store.UpdateExpiry(ctx, id, row.ExpiresAt); err != nil {
			return nil, nil, err
		}
		metricValidations.WithLabelValues("renewed").Inc()
	} else {
		metricValidations.WithLabelValues("active").Inc()
	}

	return &row, &user, nil
}

// Invalidate removes a single session by id (e.g., logout). Idempotent.
func (s *Service) Invalidate(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// InvalidateAll removes every session of a user (account deletion).
func (s *Service) InvalidateAll(ctx context.Context, userID string) error {
	return s.store.DeleteAllForUser(ctx, userID)
}

// InvalidateAllOther removes every session of a user except keepID
// (password change keeps the current device signed in).
func (s *Service) InvalidateAllOther(ctx context.Context, userID, keepID string) error {
	return s.store.DeleteAllForUserExcept(ctx, userID, keepID)
}

// SweepExpired removes all expired rows. Lazy expiry is authoritative; this
// only reclaims storage for sessions that never came back.
func (s *Service) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	metricSwept.Add(float64(n))
	return n, nil
}

func (s *Service) renewalCutoff() time.Duration {
	return time.Duration(float64(s.cfg.Lifetime) * s.cfg.RenewalFraction)
}
