// Package memory implements the repository ports on process memory.
// It backs STORAGE_DRIVER=memory and the HTTP-level tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/99minutos/notes-api/internal/core/domain"
)

// DB is the shared state behind the memory repositories.
type DB struct {
	mu         sync.RWMutex
	users      map[int64]domain.User
	emails     map[string]int64
	sessions   map[int64]domain.Session
	notes      map[int64]domain.Note
	activities []domain.Activity

	lastUserID, lastSessionID, lastNoteID int64
}

func New() *DB {
	return &DB{
		users:    make(map[int64]domain.User),
		emails:   make(map[string]int64),
		sessions: make(map[int64]domain.Session),
		notes:    make(map[int64]domain.Note),
	}
}

func (db *DB) Ping(context.Context) error  { return nil }
func (db *DB) Close(context.Context) error { return nil }

// Activities returns a copy of the recorded activity log.
func (db *DB) Activities() []domain.Activity {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]domain.Activity(nil), db.activities...)
}

// UserRepository implements ports.UserRepository.
type UserRepository struct{ db *DB }

func NewUserRepository(db *DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, taken := r.db.emails[user.Email]; taken {
		return nil, domain.ErrUserExists
	}
	r.db.lastUserID++
	u := *user
	u.ID = r.db.lastUserID
	r.db.users[u.ID] = u
	r.db.emails[u.Email] = u.ID
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	id, ok := r.db.emails[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.db.users[id]
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil
	}
	delete(r.db.users, id)
	delete(r.db.emails, u.Email)
	for sid, s := range r.db.sessions {
		if s.UserID == id {
			delete(r.db.sessions, sid)
		}
	}
	for nid, n := range r.db.notes {
		if n.UserID == id {
			delete(r.db.notes, nid)
		}
	}
	return nil
}

// SessionRepository implements ports.SessionRepository.
type SessionRepository struct{ db *DB }

func NewSessionRepository(db *DB) *SessionRepository { return &SessionRepository{db: db} }

func (r *SessionRepository) Create(_ context.Context, userID int64, key string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[userID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.db.lastSessionID++
	s := domain.Session{ID: r.db.lastSessionID, UserID: userID, Key: key}
	r.db.sessions[s.ID] = s
	return &s, nil
}

func (r *SessionRepository) Find(_ context.Context, id, userID int64, key string) (*domain.Session, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.sessions[id]
	if !ok || s.UserID != userID || s.Key != key {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

// CountByUser reports how many sessions userID holds.
func (r *SessionRepository) CountByUser(userID int64) int {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, s := range r.db.sessions {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

// NoteRepository implements ports.NoteRepository.
type NoteRepository struct{ db *DB }

func NewNoteRepository(db *DB) *NoteRepository { return &NoteRepository{db: db} }

func (r *NoteRepository) Create(_ context.Context, note *domain.Note) (*domain.Note, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[note.UserID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.db.lastNoteID++
	n := *note
	n.ID = r.db.lastNoteID
	r.db.notes[n.ID] = n
	return &n, nil
}

func (r *NoteRepository) ListByOwner(_ context.Context, userID int64, withText bool) ([]*domain.Note, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]*domain.Note, 0)
	for _, n := range r.db.notes {
		if n.UserID != userID {
			continue
		}
		n := n
		if !withText {
			n.Text = ""
		}
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *NoteRepository) FindByID(_ context.Context, id, userID int64) (*domain.Note, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n, ok := r.db.notes[id]
	if !ok || n.UserID != userID {
		return nil, domain.ErrNoteNotFound
	}
	return &n, nil
}

func (r *NoteRepository) UpdateName(_ context.Context, id, userID int64, name string, at time.Time) (*domain.Note, error) {
	return r.update(id, userID, at, func(n *domain.Note) { n.Name = name })
}

func (r *NoteRepository) UpdateText(_ context.Context, id, userID int64, text string, at time.Time) (*domain.Note, error) {
	return r.update(id, userID, at, func(n *domain.Note) { n.Text = text })
}

func (r *NoteRepository) update(id, userID int64, at time.Time, apply func(*domain.Note)) (*domain.Note, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n, ok := r.db.notes[id]
	if !ok || n.UserID != userID {
		return nil, domain.ErrNoteNotFound
	}
	apply(&n)
	n.UpdatedAt = domain.NextUpdate(n.UpdatedAt, at)
	r.db.notes[id] = n
	return &n, nil
}

// ActivityRepository implements ports.ActivityRepository.
type ActivityRepository struct{ db *DB }

func NewActivityRepository(db *DB) *ActivityRepository { return &ActivityRepository{db: db} }

func (r *ActivityRepository) InsertActivity(_ context.Context, a *domain.Activity) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.activities = append(r.db.activities, *a)
	return nil
}
