package ports

import (
	"context"

	"github.com/99minutos/notes-api/internal/core/domain"
)

// UserRepository persists user identities.
type UserRepository interface {
	// Create inserts user and returns it with its generated ID.
	// Returns domain.ErrUserExists when the email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Delete removes the user together with its notes and sessions.
	// Deleting an unknown id is not an error.
	Delete(ctx context.Context, id int64) error
}

// SessionRepository persists issued session keys.
type SessionRepository interface {
	Create(ctx context.Context, userID int64, key string) (*domain.Session, error)
	// Find matches id, owner and key exactly. A miss is domain.ErrSessionNotFound.
	Find(ctx context.Context, id, userID int64, key string) (*domain.Session, error)
}
