package commitment

import (
	"context"
	"sort"
	"sync"
)

// MinutesFunc sums the logged minutes for a commitment. The Postgres store
// joins tally.time_logs directly; the memory store gets the aggregation
// injected so the packages stay decoupled.
type MinutesFunc func(ctx context.Context, commitmentID string) (int, error)

// MemoryStore is an in-memory Store for tests and the no-database dev mode.
type MemoryStore struct {
	mu      sync.Mutex
	rows    map[string]Commitment
	minutes MinutesFunc
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]Commitment)}
}

// SetMinutesFunc wires the log aggregation used by ListWithProgress.
// Set once during wiring, before the store serves requests.
func (m *MemoryStore) SetMinutesFunc(fn MinutesFunc) { m.minutes = fn }

func (m *MemoryStore) Create(ctx context.Context, c Commitment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.ID] = c
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id, userID string) (Commitment, error) {
	if err := ctx.Err(); err != nil {
		return Commitment{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok || c.UserID != userID {
		return Commitment{}, ErrNotFound
	}
	return c, nil
}

// Lookup resolves a commitment without owner scoping. It exists for dev-mode
// wiring where sibling memory stores need to resolve ownership themselves.
func (m *MemoryStore) Lookup(ctx context.Context, id string) (Commitment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	return c, ok
}

func (m *MemoryStore) ListWithProgress(ctx context.Context, userID string) ([]Progress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	own := make([]Commitment, 0)
	for _, c := range m.rows {
		if c.UserID == userID {
			own = append(own, c)
		}
	}
	minutes := m.minutes
	m.mu.Unlock()

	sort.Slice(own, func(i, j int) bool { return own[i].CreatedAt.After(own[j].CreatedAt) })

	out := make([]Progress, 0, len(own))
	for _, c := range own {
		p := Progress{Commitment: c}
		if minutes != nil {
			n, err := minutes(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			p.TotalMinutes = n
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *MemoryStore) Update(ctx context.Context, c Commitment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[c.ID]
	if !ok || cur.UserID != c.UserID {
		return ErrNotFound
	}
	cur.Title = c.Title
	cur.Category = c.Category
	cur.GoalHours = c.GoalHours
	cur.IsActive = c.IsActive
	cur.UpdatedAt = c.UpdatedAt
	m.rows[c.ID] = cur
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}
