package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/notes-api/internal/core/domain"
)

const notesCollection = "notes"

type NoteRepository struct {
	col *mongo.Collection
	ids *sequence
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{col: db.Collection(notesCollection), ids: newSequence(db, notesCollection)}
}

type mongoNote struct {
	ID        int64     `bson:"_id"`
	UserID    int64     `bson:"user_id"`
	Name      string    `bson:"name"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Create inserts a new note document.
func (r *NoteRepository) Create(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoNote{
		ID:        id,
		UserID:    n.UserID,
		Name:      n.Name,
		Text:      n.Text,
		CreatedAt: n.CreatedAt.UTC(),
		UpdatedAt: n.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return doc.toDomain(), nil
}

// ListByOwner returns the owner's notes sorted by _id. The text field is
// projected out unless withText is set.
func (r *NoteRepository) ListByOwner(ctx context.Context, userID int64, withText bool) ([]*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if !withText {
		opts.SetProjection(bson.M{"text": 0})
	}

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoNote
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]*domain.Note, len(docs))
	for i, d := range docs {
		notes[i] = d.toDomain()
	}
	return notes, nil
}

// FindByID retrieves a note filtered by both _id and owner.
func (r *NoteRepository) FindByID(ctx context.Context, id, userID int64) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n mongoNote
	err := r.col.FindOne(ctx, ownedNote(id, userID)).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return n.toDomain(), nil
}

func (r *NoteRepository) UpdateName(ctx context.Context, id, userID int64, name string, at time.Time) (*domain.Note, error) {
	return r.update(ctx, id, userID, "name", name, at)
}

func (r *NoteRepository) UpdateText(ctx context.Context, id, userID int64, text string, at time.Time) (*domain.Note, error) {
	return r.update(ctx, id, userID, "text", text, at)
}

// update sets field and moves updated_at to max(at, updated_at + 1ms) in a
// single pipeline update so the timestamp never goes backwards.
func (r *NoteRepository) update(ctx context.Context, id, userID int64, field, value string, at time.Time) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			// $literal keeps user text starting with "$" from being read as a field path.
			{Key: field, Value: bson.D{{Key: "$literal", Value: value}}},
			{Key: "updated_at", Value: bson.D{{Key: "$max", Value: bson.A{
				at.UTC(),
				bson.D{{Key: "$add", Value: bson.A{"$updated_at", 1}}},
			}}}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n mongoNote
	err := r.col.FindOneAndUpdate(ctx, ownedNote(id, userID), pipeline, opts).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("update note %s: %w", field, err)
	}
	return n.toDomain(), nil
}

func ownedNote(id, userID int64) bson.M {
	return bson.M{"_id": id, "user_id": userID}
}

func (n mongoNote) toDomain() *domain.Note {
	return &domain.Note{
		ID:        n.ID,
		UserID:    n.UserID,
		Name:      n.Name,
		Text:      n.Text,
		CreatedAt: n.CreatedAt.UTC(),
		UpdatedAt: n.UpdatedAt.UTC(),
	}
}
