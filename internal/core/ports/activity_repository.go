package ports

import (
	"context"

	"github.com/99minutos/notes-api/internal/core/domain"
)

// ActivityRepository persists the audit trail written by the activity dispatcher.
type ActivityRepository interface {
	InsertActivity(ctx context.Context, activity *domain.Activity) error
}
