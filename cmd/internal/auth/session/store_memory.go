package session

import (
	"context"
	"sync"
	"time"
)

// UserLookupFunc resolves the owning user for a session. The Postgres store
// joins tally.users directly; the memory store needs the lookup injected so
// it stays decoupled from the account package. Returning ErrNotFound means
// the user is gone and the session should be treated as missing.
type UserLookupFunc func(ctx context.Context, userID string) (User, error)

// MemoryStore is an in-memory Store for tests and the no-database dev mode.
type MemoryStore struct {
	mu    sync.Mutex
	rows  map[string]Session
	users UserLookupFunc
}

// NewMemoryStore constructs an empty MemoryStore. users may be nil, in which
// case Get returns a bare User{ID: session.UserID}.
func NewMemoryStore(users UserLookupFunc) *MemoryStore {
	return &MemoryStore{
		rows:  make(map[string]Session),
		users: users,
	}
}

func (m *MemoryStore) Create(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = s
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (Session, User, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, User{}, err
	}

	m.mu.Lock()
	row, ok := m.rows[id]
	m.mu.Unlock()
	if !ok {
		return Session{}, User{}, ErrNotFound
	}

	if m.users == nil {
		return row, User{ID: row.UserID}, nil
	}
	user, err := m.users(ctx, row.UserID)
	if err != nil {
		return Session{}, User{}, err
	}
	return row, user, nil
}

func (m *MemoryStore) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil
	}
	row.ExpiresAt = expiresAt
	m.rows[id] = row
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *MemoryStore) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, row := range m.rows {
		if row.UserID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

func (m *MemoryStore) DeleteAllForUserExcept(ctx context.Context, userID, keepID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, row := range m.rows {
		if row.UserID == userID && id != keepID {
			delete(m.rows, id)
		}
	}
	return nil
}

func (m *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, row := range m.rows {
		if !row.ExpiresAt.After(now) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored sessions (test helper).
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
