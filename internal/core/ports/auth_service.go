package ports

import (
	"context"

	"github.com/99minutos/notes-api/internal/core/domain"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// Authenticator resolves an Authorization header value to its user.
// Every credential problem is reported as domain.ErrUnauthenticated.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (*domain.User, error)
}

// SessionCache remembers verified sessions so the gate can skip storage.
type SessionCache interface {
	// Verify reports whether an entry exists for the session and whether
	// key matches it.
	Verify(ctx context.Context, userID, sessionID int64, key string) (cached, match bool, err error)
	Remember(ctx context.Context, userID, sessionID int64, key string) error
}
