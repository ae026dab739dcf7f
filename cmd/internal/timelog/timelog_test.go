package timelog

import (
	"context"
	"testing"
	"time"
)

func TestDuration_Bounds(t *testing.T) {
	cases := []struct {
		hours, minutes int
		want           int
		wantErr        bool
	}{
		{0, 1, 1, false},
		{1, 30, 90, false},
		{23, 59, 23*60 + 59, false},
		{0, 0, 0, true},
		{-1, 10, 0, true},
		{24, 0, 0, true},
		{1, 60, 0, true},
		{1, -1, 0, true},
	}
	for _, c := range cases {
		got, err := Duration(c.hours, c.minutes)
		if c.wantErr {
			if err != ErrInvalidInput {
				t.Fatalf("%dh%dm: expected ErrInvalidInput, got %v", c.hours, c.minutes, err)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Fatalf("%dh%dm: got (%d, %v), want %d", c.hours, c.minutes, got, err, c.want)
		}
	}
}

func TestNew_RequiresReflectionAndDate(t *testing.T) {
	now := time.Now().UTC()
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	if _, err := New("c-1", 1, 0, date, "   ", now); err != ErrInvalidInput {
		t.Fatalf("blank reflection: expected ErrInvalidInput, got %v", err)
	}
	if _, err := New("c-1", 1, 0, time.Time{}, "practiced scales", now); err != ErrInvalidInput {
		t.Fatalf("zero date: expected ErrInvalidInput, got %v", err)
	}

	l, err := New("c-1", 1, 30, date, "  practiced scales  ", now)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if l.DurationMinutes != 90 || l.Reflection != "practiced scales" {
		t.Fatalf("unexpected log: %+v", l)
	}
}

func testCommitments(userByCommitment map[string]string) CommitmentLookupFunc {
	return func(ctx context.Context, commitmentID string) (CommitmentView, bool) {
		uid, ok := userByCommitment[commitmentID]
		if !ok {
			return CommitmentView{}, false
		}
		return CommitmentView{ID: commitmentID, UserID: uid, Title: "Guitar"}, true
	}
}

func TestMemoryStore_OwnershipViaCommitment(t *testing.T) {
	s := NewMemoryStore(testCommitments(map[string]string{"c-1": "owner"}))
	ctx := context.Background()
	now := time.Now().UTC()
	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	l, err := New("c-1", 0, 45, date, "worked on chords", now)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Create(ctx, l); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.Get(ctx, l.ID, "owner"); err != nil {
		t.Fatalf("get as owner: %v", err)
	}
	if _, err := s.Get(ctx, l.ID, "intruder"); err != ErrNotFound {
		t.Fatalf("get as intruder: expected ErrNotFound, got %v", err)
	}
	if err := s.Update(ctx, l.ID, "intruder", 60, date, "hax"); err != ErrNotFound {
		t.Fatalf("update as intruder: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, l.ID, "intruder"); err != ErrNotFound {
		t.Fatalf("delete as intruder: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_OrderingAndAggregates(t *testing.T) {
	s := NewMemoryStore(testCommitments(map[string]string{"c-1": "owner"}))
	ctx := context.Background()
	base := time.Now().UTC()

	day1 := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	l1, _ := New("c-1", 1, 0, day1, "first", base)
	l2, _ := New("c-1", 0, 30, day2, "second", base.Add(time.Minute))
	l3, _ := New("c-1", 0, 15, day2, "third", base.Add(2*time.Minute))
	for _, l := range []TimeLog{l1, l2, l3} {
		if err := s.Create(ctx, l); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	logs, err := s.ListForCommitment(ctx, "c-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("len = %d, want 3", len(logs))
	}
	// Newest date first; same-day ties broken by creation time.
	if logs[0].Reflection != "third" || logs[1].Reflection != "second" || logs[2].Reflection != "first" {
		t.Fatalf("unexpected order: %q %q %q", logs[0].Reflection, logs[1].Reflection, logs[2].Reflection)
	}

	total, err := s.SumMinutesForCommitment(ctx, "c-1")
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 105 {
		t.Fatalf("total = %d, want 105", total)
	}

	refl, err := s.RecentReflections(ctx, "c-1", 2)
	if err != nil {
		t.Fatalf("reflections: %v", err)
	}
	if len(refl) != 2 || refl[0] != "third" || refl[1] != "second" {
		t.Fatalf("unexpected reflections: %v", refl)
	}

	entries, err := s.ListForUser(ctx, "owner")
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(entries) != 3 || entries[0].CommitmentTitle != "Guitar" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
