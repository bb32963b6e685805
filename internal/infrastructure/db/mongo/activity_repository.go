package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/notes-api/internal/core/domain"
)

const activityCollection = "activity_events"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	db *mongo.Database
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// InsertActivity persists an activity to the activity_events audit collection.
func (r *ActivityRepository) InsertActivity(ctx context.Context, a *domain.Activity) error {
	doc := bson.M{
		"user_id":     a.UserID,
		"action":      string(a.Action),
		"at":          a.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if a.NoteID != 0 {
		doc["note_id"] = a.NoteID
	}

	_, err := r.db.Collection(activityCollection).InsertOne(ctx, doc)
	return err
}
