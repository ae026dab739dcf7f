package timelog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// CommitmentView is the minimal commitment data the memory store needs to
// resolve ownership and render history joins.
type CommitmentView struct {
	ID       string
	UserID   string
	Title    string
	Category *string
}

// CommitmentLookupFunc resolves a commitment by id. The Postgres store joins
// tally.commitments directly; the memory store gets the lookup injected.
type CommitmentLookupFunc func(ctx context.Context, commitmentID string) (CommitmentView, bool)

// MemoryStore is an in-memory Store for tests and the no-database dev mode.
type MemoryStore struct {
	mu          sync.Mutex
	rows        map[string]TimeLog
	commitments CommitmentLookupFunc
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore(commitments CommitmentLookupFunc) *MemoryStore {
	return &MemoryStore{
		rows:        make(map[string]TimeLog),
		commitments: commitments,
	}
}

func (m *MemoryStore) owner(ctx context.Context, commitmentID string) (CommitmentView, bool) {
	if m.commitments == nil {
		return CommitmentView{}, false
	}
	return m.commitments(ctx, commitmentID)
}

func (m *MemoryStore) Create(ctx context.Context, l TimeLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[l.ID] = l
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id, userID string) (TimeLog, error) {
	if err := ctx.Err(); err != nil {
		return TimeLog{}, err
	}

	m.mu.Lock()
	l, ok := m.rows[id]
	m.mu.Unlock()
	if !ok {
		return TimeLog{}, ErrNotFound
	}
	if c, ok := m.owner(ctx, l.CommitmentID); !ok || c.UserID != userID {
		return TimeLog{}, ErrNotFound
	}
	return l, nil
}

func (m *MemoryStore) ListForCommitment(ctx context.Context, commitmentID string) ([]TimeLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	out := make([]TimeLog, 0)
	for _, l := range m.rows {
		if l.CommitmentID == commitmentID {
			out = append(out, l)
		}
	}
	m.mu.Unlock()

	sortLogs(out)
	return out, nil
}

func (m *MemoryStore) ListForUser(ctx context.Context, userID string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	logs := make([]TimeLog, 0, len(m.rows))
	for _, l := range m.rows {
		logs = append(logs, l)
	}
	m.mu.Unlock()

	sortLogs(logs)

	out := make([]Entry, 0)
	for _, l := range logs {
		c, ok := m.owner(ctx, l.CommitmentID)
		if !ok || c.UserID != userID {
			continue
		}
		out = append(out, Entry{
			TimeLog:            l,
			CommitmentTitle:    c.Title,
			CommitmentCategory: c.Category,
		})
	}
	return out, nil
}

func (m *MemoryStore) SumMinutesForCommitment(ctx context.Context, commitmentID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, l := range m.rows {
		if l.CommitmentID == commitmentID {
			total += l.DurationMinutes
		}
	}
	return total, nil
}

func (m *MemoryStore) Update(ctx context.Context, id, userID string, durationMinutes int, date time.Time, reflection string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	l, ok := m.rows[id]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if c, ok := m.owner(ctx, l.CommitmentID); !ok || c.UserID != userID {
		return ErrNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	l.DurationMinutes = durationMinutes
	l.Date = date
	l.Reflection = reflection
	m.rows[id] = l
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	l, ok := m.rows[id]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if c, ok := m.owner(ctx, l.CommitmentID); !ok || c.UserID != userID {
		return ErrNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *MemoryStore) RecentReflections(ctx context.Context, commitmentID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	logs, err := m.ListForCommitment(ctx, commitmentID)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, limit)
	for _, l := range logs {
		if len(out) == limit {
			break
		}
		out = append(out, l.Reflection)
	}
	return out, nil
}

// DeleteForCommitment removes all logs of a commitment (dev-mode stand-in
// for the FK cascade).
func (m *MemoryStore) DeleteForCommitment(ctx context.Context, commitmentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.rows {
		if l.CommitmentID == commitmentID {
			delete(m.rows, id)
		}
	}
	return nil
}

func sortLogs(logs []TimeLog) {
	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].Date.Equal(logs[j].Date) {
			return logs[i].Date.After(logs[j].Date)
		}
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
}
