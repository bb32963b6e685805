package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/notes-api/internal/api/metrics"
	"github.com/99minutos/notes-api/internal/core/domain"
	"github.com/99minutos/notes-api/internal/core/ports"
)

// SessionGate is the only authorization check in front of authenticated
// routes. It resolves "<userID>.<sessionID>.<key>" credentials to users.
type SessionGate struct {
	sessions ports.SessionRepository
	users    ports.UserRepository
	cache    ports.SessionCache // optional
	log      zerolog.Logger
}

// NewSessionGate returns a gate. cache may be nil.
func NewSessionGate(sessions ports.SessionRepository, users ports.UserRepository, cache ports.SessionCache, log zerolog.Logger) *SessionGate {
	return &SessionGate{sessions: sessions, users: users, cache: cache, log: log}
}

// Authenticate returns domain.ErrUnauthenticated for every credential
// problem. Storage failures are returned wrapped so they surface as 500s.
func (g *SessionGate) Authenticate(ctx context.Context, credential string) (*domain.User, error) {
	tok, err := domain.ParseToken(credential)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	if err := g.verifySession(ctx, tok); err != nil {
		return nil, err
	}

	user, err := g.users.FindByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

func (g *SessionGate) verifySession(ctx context.Context, tok domain.Token) error {
	if g.cache != nil {
		cached, match, err := g.cache.Verify(ctx, tok.UserID, tok.SessionID, tok.Key)
		switch {
		case err != nil:
			g.log.Warn().Err(err).Int64("session_id", tok.SessionID).Msg("session cache lookup failed, using storage")
		case cached:
			metrics.SessionCacheTotal.WithLabelValues("hit").Inc()
			if !match {
				return domain.ErrUnauthenticated
			}
			return nil
		default:
			metrics.SessionCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	if _, err := g.sessions.Find(ctx, tok.SessionID, tok.UserID, tok.Key); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrUnauthenticated
		}
		return fmt.Errorf("authenticate: %w", err)
	}

	if g.cache != nil {
		if err := g.cache.Remember(ctx, tok.UserID, tok.SessionID, tok.Key); err != nil {
			g.log.Warn().Err(err).Int64("session_id", tok.SessionID).Msg("failed to cache session")
		}
	}
	return nil
}
