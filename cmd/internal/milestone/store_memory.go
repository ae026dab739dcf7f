package milestone

import (
	"context"
	"sort"
	"sync"
)

// OwnerLookupFunc resolves the owner of a commitment. The Postgres store joins
// tally.commitments directly; the memory store gets the lookup injected.
type OwnerLookupFunc func(ctx context.Context, commitmentID string) (userID string, ok bool)

// MemoryStore is an in-memory Store for tests and the no-database dev mode.
type MemoryStore struct {
	mu    sync.Mutex
	rows  map[string]Milestone
	owner OwnerLookupFunc
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore(owner OwnerLookupFunc) *MemoryStore {
	return &MemoryStore{
		rows:  make(map[string]Milestone),
		owner: owner,
	}
}

func (m *MemoryStore) ownerOf(ctx context.Context, commitmentID string) (string, bool) {
	if m.owner == nil {
		return "", false
	}
	return m.owner(ctx, commitmentID)
}

func (m *MemoryStore) Create(ctx context.Context, ms Milestone) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.CommitmentID == ms.CommitmentID && row.HoursThreshold == ms.HoursThreshold {
			return ErrExists
		}
	}
	m.rows[ms.ID] = ms
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id, userID string) (Milestone, error) {
	if err := ctx.Err(); err != nil {
		return Milestone{}, err
	}

	m.mu.Lock()
	ms, ok := m.rows[id]
	m.mu.Unlock()
	if !ok {
		return Milestone{}, ErrNotFound
	}
	if owner, ok := m.ownerOf(ctx, ms.CommitmentID); !ok || owner != userID {
		return Milestone{}, ErrNotFound
	}
	return ms, nil
}

func (m *MemoryStore) ListForCommitment(ctx context.Context, commitmentID string) ([]Milestone, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	out := make([]Milestone, 0)
	for _, ms := range m.rows {
		if ms.CommitmentID == commitmentID {
			out = append(out, ms)
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].HoursThreshold < out[j].HoursThreshold
	})
	return out, nil
}

func (m *MemoryStore) UpdateSynthesis(ctx context.Context, id, userID, synthesis string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	ms, ok := m.rows[id]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if owner, ok := m.ownerOf(ctx, ms.CommitmentID); !ok || owner != userID {
		return ErrNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ms.UserSynthesis = synthesis
	m.rows[id] = ms
	return nil
}

func (m *MemoryStore) SetFeedback(ctx context.Context, id, feedback string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.rows[id]
	if !ok {
		return ErrNotFound
	}
	ms.AIFeedback = &feedback
	m.rows[id] = ms
	return nil
}

func (m *MemoryStore) DeleteForCommitment(ctx context.Context, commitmentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ms := range m.rows {
		if ms.CommitmentID == commitmentID {
			delete(m.rows, id)
		}
	}
	return nil
}
