package postgres

import (
	"context"
	"fmt"

	"github.com/99minutos/notes-api/internal/core/domain"
)

type ActivityRepository struct {
	db DBTX
}

func NewActivityRepository(db DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) InsertActivity(ctx context.Context, a *domain.Activity) error {
	query :=
		`INSERT INTO activity_events (user_id, action, note_id, at)
		 VALUES ($1, $2, NULLIF($3::bigint, 0), $4)`

	if _, err := r.db.ExecContext(ctx, query, a.UserID, string(a.Action), a.NoteID, a.At); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
