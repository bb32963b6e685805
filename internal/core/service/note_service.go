package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/notes-api/internal/api/metrics"
	"github.com/99minutos/notes-api/internal/core/domain"
	"github.com/99minutos/notes-api/internal/core/ports"
)

type NoteService struct {
	repo     ports.NoteRepository
	activity ports.ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

func NewNoteService(repo ports.NoteRepository, activity ports.ActivityRecorder, logger zerolog.Logger) *NoteService {
	if activity == nil {
		activity = nopRecorder{}
	}
	return &NoteService{repo: repo, activity: activity, logger: logger, now: utcNow}
}

// CreateNote creates a note named name, or "Unnamed" when name is nil or empty.
func (s *NoteService) CreateNote(ctx context.Context, userID int64, name *string) (*domain.Note, error) {
	now := s.now()
	note, err := s.repo.Create(ctx, &domain.Note{
		UserID:    userID,
		Name:      domain.NoteName(name),
		Text:      domain.DefaultNoteText,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to create note")
		return nil, fmt.Errorf("create note: %w", err)
	}

	metrics.NotesCreatedTotal.Inc()
	s.activity.Record(domain.Activity{UserID: userID, Action: domain.ActivityNoteCreated, NoteID: note.ID, At: now})
	s.logger.Info().Int64("user_id", userID).Int64("note_id", note.ID).Msg("note created")
	return note, nil
}

// ListNotes returns the caller's notes in ID order. Bodies are included
// only when withText is set.
func (s *NoteService) ListNotes(ctx context.Context, userID int64, withText bool) ([]ports.NoteListItem, error) {
	notes, err := s.repo.ListByOwner(ctx, userID, withText)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	items := make([]ports.NoteListItem, len(notes))
	for i, n := range notes {
		items[i] = ports.NoteListItem{ID: n.ID, Name: n.Name}
		if withText {
			text := n.Text
			items[i].Text = &text
		}
	}
	return items, nil
}

func (s *NoteService) GetNote(ctx context.Context, id, userID int64) (*domain.Note, error) {
	note, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// RenameNote sets the name, falling back to "Unnamed", and always bumps updated_at.
func (s *NoteService) RenameNote(ctx context.Context, id, userID int64, name *string) (*domain.Note, error) {
	note, err := s.repo.UpdateName(ctx, id, userID, domain.NoteName(name), s.now())
	if err != nil {
		return nil, fmt.Errorf("rename note: %w", err)
	}

	metrics.NoteMutationsTotal.WithLabelValues("rename").Inc()
	s.activity.Record(domain.Activity{UserID: userID, Action: domain.ActivityNoteRenamed, NoteID: id, At: note.UpdatedAt})
	return note, nil
}

// WriteNoteText replaces the note body verbatim.
func (s *NoteService) WriteNoteText(ctx context.Context, id, userID int64, text string) (*domain.Note, error) {
	note, err := s.repo.UpdateText(ctx, id, userID, text, s.now())
	if err != nil {
		return nil, fmt.Errorf("write note text: %w", err)
	}

	metrics.NoteMutationsTotal.WithLabelValues("text").Inc()
	s.activity.Record(domain.Activity{UserID: userID, Action: domain.ActivityNoteWritten, NoteID: id, At: note.UpdatedAt})
	return note, nil
}

// ApplyNoteDiff checks ownership and then rejects the request: the
// compressed diff format has not been defined, so nothing is applied.
func (s *NoteService) ApplyNoteDiff(ctx context.Context, id, userID int64, compressedDiff string) (*domain.Note, error) {
	if _, err := s.repo.FindByID(ctx, id, userID); err != nil {
		return nil, fmt.Errorf("apply note diff: %w", err)
	}

	metrics.NoteMutationsTotal.WithLabelValues("diff_rejected").Inc()
	s.logger.Debug().Int64("note_id", id).Int("diff_len", len(compressedDiff)).Msg("note diff rejected")
	return nil, fmt.Errorf("apply note diff: %w", domain.ErrNotImplemented)
}
