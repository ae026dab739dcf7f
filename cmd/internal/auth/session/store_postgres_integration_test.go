package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Integration tests are opt-in and require TALLY_DATABASE_URL.
// They run against a throwaway schema that mirrors the production layout but
// is created and dropped per test.

func TestPostgresStore_SessionLifecycle(t *testing.T) {
	t.Parallel()

	pool, cleanup := mustOpenSessionTestSchema(t)
	defer cleanup()

	store := NewPostgresStore(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	userID := mustInsertSessionTestUser(t, pool, "lifecycle-user")
	now := time.Now().UTC().Truncate(time.Microsecond)

	sess := Session{ID: randomHex64(t), UserID: userID, ExpiresAt: now.Add(30 * 24 * time.Hour)}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, user, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != userID || user.Username != "lifecycle-user" {
		t.Fatalf("unexpected row: %+v user=%+v", got, user)
	}
	if !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Fatalf("expiry mismatch: got %v want %v", got.ExpiresAt, sess.ExpiresAt)
	}

	renewed := now.Add(60 * 24 * time.Hour)
	if err := store.UpdateExpiry(ctx, sess.ID, renewed); err != nil {
		t.Fatalf("update expiry: %v", err)
	}
	got, _, err = store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get after renew: %v", err)
	}
	if !got.ExpiresAt.Equal(renewed) {
		t.Fatalf("renewed expiry mismatch: got %v want %v", got.ExpiresAt, renewed)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := store.Get(ctx, sess.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
	// Idempotent.
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestPostgresStore_DeleteAllForUserExcept(t *testing.T) {
	t.Parallel()

	pool, cleanup := mustOpenSessionTestSchema(t)
	defer cleanup()

	store := NewPostgresStore(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	userID := mustInsertSessionTestUser(t, pool, "multi-device")
	otherID := mustInsertSessionTestUser(t, pool, "bystander")
	now := time.Now().UTC()
	exp := now.Add(30 * 24 * time.Hour)

	keep := Session{ID: randomHex64(t), UserID: userID, ExpiresAt: exp}
	drop := Session{ID: randomHex64(t), UserID: userID, ExpiresAt: exp}
	foreign := Session{ID: randomHex64(t), UserID: otherID, ExpiresAt: exp}
	for _, s := range []Session{keep, drop, foreign} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("create %s: %v", s.ID, err)
		}
	}

	if err := store.DeleteAllForUserExcept(ctx, userID, keep.ID); err != nil {
		t.Fatalf("delete all except: %v", err)
	}

	if _, _, err := store.Get(ctx, keep.ID); err != nil {
		t.Fatalf("kept session should remain: %v", err)
	}
	if _, _, err := store.Get(ctx, drop.ID); err != ErrNotFound {
		t.Fatalf("other session should be gone, got: %v", err)
	}
	if _, _, err := store.Get(ctx, foreign.ID); err != nil {
		t.Fatalf("foreign session should remain: %v", err)
	}

	if err := store.DeleteAllForUser(ctx, userID); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if _, _, err := store.Get(ctx, keep.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete all, got: %v", err)
	}
}

func TestPostgresStore_DeleteExpired(t *testing.T) {
	t.Parallel()

	pool, cleanup := mustOpenSessionTestSchema(t)
	defer cleanup()

	store := NewPostgresStore(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	userID := mustInsertSessionTestUser(t, pool, "sweep-user")
	now := time.Now().UTC()

	live := Session{ID: randomHex64(t), UserID: userID, ExpiresAt: now.Add(time.Hour)}
	dead := Session{ID: randomHex64(t), UserID: userID, ExpiresAt: now.Add(-time.Hour)}
	edge := Session{ID: randomHex64(t), UserID: userID, ExpiresAt: now}
	for _, s := range []Session{live, dead, edge} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	n, err := store.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 2 {
		t.Fatalf("deleted %d rows, want 2 (expired + boundary)", n)
	}
	if _, _, err := store.Get(ctx, live.ID); err != nil {
		t.Fatalf("live session should survive sweep: %v", err)
	}
}

func TestPostgresStore_UserDeleteCascades(t *testing.T) {
	t.Parallel()

	pool, cleanup := mustOpenSessionTestSchema(t)
	defer cleanup()

	store := NewPostgresStore(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	userID := mustInsertSessionTestUser(t, pool, "cascade-user")
	sess := Session{ID: randomHex64(t), UserID: userID, ExpiresAt: time.Now().UTC().Add(time.Hour)}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := pool.Exec(ctx, `DELETE FROM tally.users WHERE id = $1`, userID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, _, err := store.Get(ctx, sess.ID); err != ErrNotFound {
		t.Fatalf("expected cascade to remove session, got: %v", err)
	}
}

// ---- helpers ----

// mustOpenSessionTestSchema connects and (re)creates the tally schema used by
// the store's hardcoded queries. Tests in this file must not run in parallel
// with other packages touching the same database.
func mustOpenSessionTestSchema(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	raw := strings.TrimSpace(os.Getenv("TALLY_DATABASE_URL"))
	if raw == "" {
		t.Skip("integration test skipped: TALLY_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, raw)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		t.Skipf("integration test skipped: Postgres unreachable: %v", err)
	}

	setupCtx, setupCancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer setupCancel()

	_, err = pool.Exec(setupCtx, `
CREATE SCHEMA IF NOT EXISTS tally;

CREATE TABLE IF NOT EXISTS tally.users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  username_norm TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tally.sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES tally.users(id) ON DELETE CASCADE,
  expires_at TIMESTAMPTZ NOT NULL,
  CONSTRAINT chk_sessions_id_digest_len CHECK (char_length(id) = 64)
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON tally.sessions (user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON tally.sessions (expires_at);
`)
	if err != nil {
		pool.Close()
		t.Fatalf("apply schema: %v", err)
	}

	return pool, func() { pool.Close() }
}

func mustInsertSessionTestUser(t *testing.T, pool *pgxpool.Pool, username string) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Unique suffix keeps repeated runs against a shared schema from colliding.
	username = username + "-" + randomHex64(t)[:8]
	id := randomHex64(t)[:26]

	_, err := pool.Exec(ctx, `
		INSERT INTO tally.users (id, username, username_norm, password_hash)
		VALUES ($1, $2, $3, 'x')
	`, id, username, strings.ToLower(username))
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func randomHex64(t *testing.T) string {
	t.Helper()

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand: %v", err)
	}
	return hex.EncodeToString(b)
}
