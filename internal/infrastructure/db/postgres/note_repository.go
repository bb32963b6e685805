package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/99minutos/notes-api/internal/core/domain"
)

type NoteRepository struct {
	db DBTX
}

func NewNoteRepository(db DBTX) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	query :=
		`INSERT INTO notes (user_id, name, text, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`

	created := *note
	err := r.db.QueryRowContext(ctx, query,
		note.UserID, note.Name, note.Text, note.CreatedAt, note.UpdatedAt).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return &created, nil
}

func (r *NoteRepository) ListByOwner(ctx context.Context, userID int64, withText bool) ([]*domain.Note, error) {
	query :=
		`SELECT id, user_id, name, created_at, updated_at FROM notes
		 WHERE user_id = $1
		 ORDER BY id`
	if withText {
		query =
			`SELECT id, user_id, name, created_at, updated_at, text FROM notes
			 WHERE user_id = $1
			 ORDER BY id`
	}

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*domain.Note, 0)
	for rows.Next() {
		n := &domain.Note{}
		dest := []any{&n.ID, &n.UserID, &n.Name, &n.CreatedAt, &n.UpdatedAt}
		if withText {
			dest = append(dest, &n.Text)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("list notes: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) FindByID(ctx context.Context, id, userID int64) (*domain.Note, error) {
	query :=
		`SELECT id, user_id, name, text, created_at, updated_at FROM notes
		 WHERE id = $1 AND user_id = $2`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, userID), "find note")
}

func (r *NoteRepository) UpdateName(ctx context.Context, id, userID int64, name string, at time.Time) (*domain.Note, error) {
	query :=
		`UPDATE notes
		 SET name = $1, updated_at = GREATEST($2::timestamptz, updated_at + interval '1 millisecond')
		 WHERE id = $3 AND user_id = $4
		 RETURNING id, user_id, name, text, created_at, updated_at`

	return r.scanOne(r.db.QueryRowContext(ctx, query, name, at, id, userID), "rename note")
}

func (r *NoteRepository) UpdateText(ctx context.Context, id, userID int64, text string, at time.Time) (*domain.Note, error) {
	query :=
		`UPDATE notes
		 SET text = $1, updated_at = GREATEST($2::timestamptz, updated_at + interval '1 millisecond')
		 WHERE id = $3 AND user_id = $4
		 RETURNING id, user_id, name, text, created_at, updated_at`

	return r.scanOne(r.db.QueryRowContext(ctx, query, text, at, id, userID), "write note text")
}

func (r *NoteRepository) scanOne(row *sql.Row, op string) (*domain.Note, error) {
	n := &domain.Note{}
	err := row.Scan(&n.ID, &n.UserID, &n.Name, &n.Text, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	return n, nil
}
