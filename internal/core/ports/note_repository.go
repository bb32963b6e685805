package ports

import (
	"context"
	"time"

	"github.com/99minutos/notes-api/internal/core/domain"
)

// NoteRepository defines persistence operations for notes.
//
// Every lookup and update is filtered by note ID and owner in a single
// query; a note owned by someone else is reported as domain.ErrNoteNotFound.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	// ListByOwner returns the owner's notes ordered by ID. Text is only
	// loaded when withText is true.
	ListByOwner(ctx context.Context, userID int64, withText bool) ([]*domain.Note, error)
	FindByID(ctx context.Context, id, userID int64) (*domain.Note, error)
	// UpdateName and UpdateText set updated_at to domain.NextUpdate(previous, at).
	UpdateName(ctx context.Context, id, userID int64, name string, at time.Time) (*domain.Note, error)
	UpdateText(ctx context.Context, id, userID int64, text string, at time.Time) (*domain.Note, error)
}
