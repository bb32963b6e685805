package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/99minutos/notes-api/internal/core/domain"
)

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, userID int64, key string) (*domain.Session, error) {
	query :=
		`INSERT INTO sessions (user_id, key)
		 VALUES ($1, $2)
		 RETURNING id`

	s := &domain.Session{UserID: userID, Key: key}
	if err := r.db.QueryRowContext(ctx, query, userID, key).Scan(&s.ID); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) Find(ctx context.Context, id, userID int64, key string) (*domain.Session, error) {
	query :=
		`SELECT id, user_id, key FROM sessions
		 WHERE id = $1 AND user_id = $2 AND key = $3`

	s := &domain.Session{}
	err := r.db.QueryRowContext(ctx, query, id, userID, key).Scan(&s.ID, &s.UserID, &s.Key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return s, nil
}
