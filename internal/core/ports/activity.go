package ports

import (
	"context"

	"github.com/99minutos/notes-api/internal/core/domain"
)

// ActivityRecorder accepts audit records without blocking the caller.
type ActivityRecorder interface {
	Record(activity domain.Activity)
}

// ActivityProcessor persists a single activity; called by dispatcher workers.
type ActivityProcessor interface {
	Process(ctx context.Context, activity domain.Activity) error
}
