package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and the no-database dev mode.
//
// Note: unlike Postgres, deleting a user here does not cascade into other
// stores; dev-mode wiring is responsible for cleanup.
type MemoryStore struct {
	mu     sync.Mutex
	users  map[string]Credentials // by id
	byNorm map[string]string      // username_norm -> id
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]Credentials),
		byNorm: make(map[string]string),
	}
}

func (m *MemoryStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	username := strings.TrimSpace(in.Username)
	norm := NormalizeUsername(username)
	if err := ValidateUsername(norm); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(in.Password) == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password is required"}
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

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byNorm[norm]; taken {
		return User{}, ConflictError{Op: op, Field: "username"}
	}

	u := User{ID: userID, Username: username, CreatedAt: now}
	m.users[userID] = Credentials{User: u, PasswordHash: pwHash}
	m.byNorm[norm] = userID

	return u, nil
}

func (m *MemoryStore) GetByID(ctx context.Context, userID string) (User, error) {
	const op = "identity.GetByID"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.users[userID]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	return c.User, nil
}

func (m *MemoryStore) GetByUsername(ctx context.Context, username string) (Credentials, error) {
	const op = "identity.GetByUsername"

	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}

	norm := NormalizeUsername(username)

	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byNorm[norm]
	if !ok {
		return Credentials{}, NotFoundError{Op: op, Resource: "user"}
	}
	return m.users[id], nil
}

func (m *MemoryStore) GetCredentials(ctx context.Context, userID string) (Credentials, error) {
	const op = "identity.GetCredentials"

	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.users[userID]
	if !ok {
		return Credentials{}, NotFoundError{Op: op, Resource: "user"}
	}
	return c, nil
}

func (m *MemoryStore) UpdatePassword(ctx context.Context, userID, passwordHash string, now time.Time) error {
	const op = "identity.UpdatePassword"

	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(passwordHash) == "" {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing password_hash"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.users[userID]
	if !ok {
		return NotFoundError{Op: op, Resource: "user"}
	}
	c.PasswordHash = passwordHash
	m.users[userID] = c
	return nil
}

func (m *MemoryStore) DeleteUser(ctx context.Context, userID string) error {
	const op = "identity.DeleteUser"

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.users[userID]
	if !ok {
		return NotFoundError{Op: op, Resource: "user"}
	}
	delete(m.users, userID)
	delete(m.byNorm, NormalizeUsername(c.User.Username))
	return nil
}
