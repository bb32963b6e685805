package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/99minutos/notes-api/internal/core/domain"
)

func seedUser(t *testing.T, db *DB, email string) *domain.User {
	t.Helper()
	u, err := NewUserRepository(db).Create(context.Background(), &domain.User{Email: email, Name: "n", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com")

	_, err := NewUserRepository(db).Create(context.Background(), &domain.User{Email: "a@x.com"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestSessionRepository_ExactMatch(t *testing.T) {
	db := New()
	u := seedUser(t, db, "a@x.com")
	repo := NewSessionRepository(db)
	ctx := context.Background()

	s, err := repo.Create(ctx, u.ID, "abcdef")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := repo.Find(ctx, s.ID, u.ID, "abcdef"); err != nil {
		t.Fatalf("exact match failed: %v", err)
	}
	for _, key := range []string{"abcde", "abcdefg", "ABCDEF", ""} {
		if _, err := repo.Find(ctx, s.ID, u.ID, key); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("key %q: expected ErrSessionNotFound, got %v", key, err)
		}
	}
	if _, err := repo.Find(ctx, s.ID, u.ID+1, "abcdef"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("wrong user: expected ErrSessionNotFound, got %v", err)
	}
}

func TestNoteRepository_UpdatedAtStrictlyIncreases(t *testing.T) {
	db := New()
	u := seedUser(t, db, "a@x.com")
	repo := NewNoteRepository(db)
	ctx := context.Background()

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n, err := repo.Create(ctx, &domain.Note{UserID: u.ID, Name: "n", Text: "t", CreatedAt: at, UpdatedAt: at})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	prev := n.UpdatedAt
	for i := 0; i < 5; i++ {
		// Clock going backwards must not move updated_at back.
		got, err := repo.UpdateText(ctx, n.ID, u.ID, "x", at.Add(-time.Hour))
		if err != nil {
			t.Fatalf("UpdateText error: %v", err)
		}
		if !got.UpdatedAt.After(prev) {
			t.Fatalf("updated_at %v not after %v", got.UpdatedAt, prev)
		}
		prev = got.UpdatedAt
	}
}

func TestNoteRepository_ConcurrentCreate(t *testing.T) {
	db := New()
	u := seedUser(t, db, "a@x.com")
	repo := NewNoteRepository(db)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Create(context.Background(), &domain.Note{UserID: u.ID, Name: "n"})
		}()
	}
	wg.Wait()

	notes, err := repo.ListByOwner(context.Background(), u.ID, false)
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(notes) != 50 {
		t.Fatalf("expected 50 notes, got %d", len(notes))
	}
	for i := 1; i < len(notes); i++ {
		if notes[i-1].ID >= notes[i].ID {
			t.Fatal("notes not ordered by id")
		}
	}
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := New()
	ctx := context.Background()
	alice := seedUser(t, db, "a@x.com")
	bob := seedUser(t, db, "b@x.com")

	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)
	notes := NewNoteRepository(db)

	for _, u := range []*domain.User{alice, bob} {
		if _, err := sessions.Create(ctx, u.ID, "k"); err != nil {
			t.Fatalf("create session: %v", err)
		}
		if _, err := notes.Create(ctx, &domain.Note{UserID: u.ID, Name: "n"}); err != nil {
			t.Fatalf("create note: %v", err)
		}
	}

	if err := users.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := users.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}

	if _, err := users.FindByID(ctx, alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user still present: %v", err)
	}
	if n := sessions.CountByUser(alice.ID); n != 0 {
		t.Fatalf("expected no sessions, got %d", n)
	}
	if list, _ := notes.ListByOwner(ctx, alice.ID, false); len(list) != 0 {
		t.Fatalf("expected no notes, got %d", len(list))
	}
	if _, err := users.Create(ctx, &domain.User{Email: "a@x.com"}); err != nil {
		t.Fatalf("email should be free again: %v", err)
	}

	if n := sessions.CountByUser(bob.ID); n != 1 {
		t.Fatalf("other user's sessions touched: %d", n)
	}
	if list, _ := notes.ListByOwner(ctx, bob.ID, false); len(list) != 1 {
		t.Fatalf("other user's notes touched: %d", len(list))
	}
}
