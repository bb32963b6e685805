package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/notes-api/internal/core/domain"
)

const sessionsCollection = "sessions"

type SessionRepository struct {
	coll *mongo.Collection
	ids  *sequence
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionsCollection), ids: newSequence(db, sessionsCollection)}
}

type mongoSession struct {
	ID     int64  `bson:"_id"`
	UserID int64  `bson:"user_id"`
	Key    string `bson:"key"`
}

func (r *SessionRepository) Create(ctx context.Context, userID int64, key string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoSession{ID: id, UserID: userID, Key: key}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return &domain.Session{ID: doc.ID, UserID: doc.UserID, Key: doc.Key}, nil
}

// Find matches all three fields in one query.
func (r *SessionRepository) Find(ctx context.Context, id, userID int64, key string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoSession
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "user_id": userID, "key": key}).Decode(&ms)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &domain.Session{ID: ms.ID, UserID: ms.UserID, Key: ms.Key}, nil
}
