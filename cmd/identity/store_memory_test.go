package identity

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_CreateAndLookup(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	u, err := s.CreateUser(ctx, CreateUserInput{Username: "Learner", Password: "secret-1", Now: now})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(u.ID) != 26 {
		t.Fatalf("expected 26-char ULID, got %q", u.ID)
	}
	if u.Username != "Learner" {
		t.Fatalf("typed username not preserved: %q", u.Username)
	}

	got, err := s.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("id mismatch")
	}

	// Lookup is case-insensitive.
	creds, err := s.GetByUsername(ctx, "lEaRnEr")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if ok, _ := VerifyPassword("secret-1", creds.PasswordHash); !ok {
		t.Fatalf("stored hash does not verify")
	}
}

func TestMemoryStore_CreateUser_Conflict(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, CreateUserInput{Username: "dupe", Password: "secret-1"}); err != nil {
		t.Fatalf("create 1: %v", err)
	}
	_, err := s.CreateUser(ctx, CreateUserInput{Username: "DUPE", Password: "secret-2"})
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got: %v", err)
	}
}

func TestMemoryStore_CreateUser_InvalidInput(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	cases := []CreateUserInput{
		{Username: "ab", Password: "secret-1"},           // too short
		{Username: "has space", Password: "secret-1"},    // bad charset
		{Username: "Uppercase!", Password: "secret-1"},   // bad charset after normalize
		{Username: "valid-name", Password: ""},           // missing password
		{Username: "valid-name2", Password: "tiny"},      // below policy min
	}
	for _, in := range cases {
		if _, err := s.CreateUser(ctx, in); !IsInvalidInput(err) {
			t.Fatalf("input %+v: expected invalid input, got: %v", in, err)
		}
	}
}

func TestMemoryStore_UpdatePasswordAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, CreateUserInput{Username: "rotate", Password: "old-secret"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newHash, err := HashPassword("new-secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := s.UpdatePassword(ctx, u.ID, newHash, time.Now().UTC()); err != nil {
		t.Fatalf("update password: %v", err)
	}

	creds, err := s.GetCredentials(ctx, u.ID)
	if err != nil {
		t.Fatalf("get credentials: %v", err)
	}
	if ok, _ := VerifyPassword("old-secret", creds.PasswordHash); ok {
		t.Fatalf("old password still verifies")
	}
	if ok, _ := VerifyPassword("new-secret", creds.PasswordHash); !ok {
		t.Fatalf("new password does not verify")
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetByID(ctx, u.ID); !IsNotFound(err) {
		t.Fatalf("expected not found, got: %v", err)
	}
	// Username is free again after delete.
	if _, err := s.CreateUser(ctx, CreateUserInput{Username: "rotate", Password: "fresh-secret"}); err != nil {
		t.Fatalf("re-create after delete: %v", err)
	}
}

func TestValidateUsername(t *testing.T) {
	ok := []string{"abc", "a-b_c9", "exactly-thirty-one-chars-long-x"}
	for _, s := range ok {
		if err := ValidateUsername(s); err != nil {
			t.Fatalf("expected %q valid, got: %v", s, err)
		}
	}

	bad := []string{"", "ab", "Has-Upper", "with space", "way-too-long-username-over-thirty-one-chars", "emoji😺"}
	for _, s := range bad {
		if err := ValidateUsername(s); !IsInvalidInput(err) {
			t.Fatalf("expected %q invalid, got: %v", s, err)
		}
	}
}
