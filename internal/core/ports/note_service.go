package ports

import (
	"context"

	"github.com/99minutos/notes-api/internal/core/domain"
)

// NoteListItem is the projection returned by ListNotes. Text is nil unless
// the caller asked for note bodies.
type NoteListItem struct {
	ID   int64
	Name string
	Text *string
}

// NoteService defines use-case operations on a user's notes.
type NoteService interface {
	CreateNote(ctx context.Context, userID int64, name *string) (*domain.Note, error)
	ListNotes(ctx context.Context, userID int64, withText bool) ([]NoteListItem, error)
	GetNote(ctx context.Context, id, userID int64) (*domain.Note, error)
	RenameNote(ctx context.Context, id, userID int64, name *string) (*domain.Note, error)
	WriteNoteText(ctx context.Context, id, userID int64, text string) (*domain.Note, error)
	ApplyNoteDiff(ctx context.Context, id, userID int64, compressedDiff string) (*domain.Note, error)
}
