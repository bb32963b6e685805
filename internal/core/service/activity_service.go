package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/notes-api/internal/core/domain"
	"github.com/99minutos/notes-api/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns the processor the activity dispatcher workers call.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityProcessor {
	return &activityService{repo: repo, log: log}
}

// Process persists a single activity record.
func (s *activityService) Process(ctx context.Context, a domain.Activity) error {
	if err := s.repo.InsertActivity(ctx, &a); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	s.log.Debug().
		Int64("user_id", a.UserID).
		Str("action", string(a.Action)).
		Int64("note_id", a.NoteID).
		Msg("activity recorded")
	return nil
}
