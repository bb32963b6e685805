// Package storage opens the configured persistence backend and exposes its
// repositories behind the core ports.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/notes-api/internal/core/ports"
	"github.com/99minutos/notes-api/internal/infrastructure/db/memory"
	"github.com/99minutos/notes-api/internal/infrastructure/db/mongo"
	"github.com/99minutos/notes-api/internal/infrastructure/db/postgres"
	"github.com/99minutos/notes-api/internal/pkg/config"
)

// Store bundles the repositories of one backend with its lifecycle.
type Store struct {
	Driver   string
	Users    ports.UserRepository
	Sessions ports.SessionRepository
	Notes    ports.NoteRepository
	Activity ports.ActivityRepository

	ping  func(context.Context) error
	close func(context.Context) error
}

// Open connects to the backend named by cfg.Storage.Driver and prepares
// its schema (goose migrations for postgres, indexes for mongo).
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Storage.DSN})
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Storage.Driver).Msg("connected to postgres")
		return newPostgres(db), nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Storage.Driver).Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return newMongo(client, db), nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
}

// NewMemory returns a Store backed by process memory.
func NewMemory() *Store {
	db := memory.New()
	return &Store{
		Driver:   config.DriverMemory,
		Users:    memory.NewUserRepository(db),
		Sessions: memory.NewSessionRepository(db),
		Notes:    memory.NewNoteRepository(db),
		Activity: memory.NewActivityRepository(db),
		ping:     db.Ping,
		close:    db.Close,
	}
}

func newPostgres(db *sql.DB) *Store {
	return &Store{
		Driver:   config.DriverPostgres,
		Users:    postgres.NewUserRepository(db),
		Sessions: postgres.NewSessionRepository(db),
		Notes:    postgres.NewNoteRepository(db),
		Activity: postgres.NewActivityRepository(db),
		ping:     db.PingContext,
		close:    func(context.Context) error { return db.Close() },
	}
}

func newMongo(client *mongodriver.Client, db *mongodriver.Database) *Store {
	return &Store{
		Driver:   config.DriverMongo,
		Users:    mongo.NewUserRepository(db),
		Sessions: mongo.NewSessionRepository(db),
		Notes:    mongo.NewNoteRepository(db),
		Activity: mongo.NewActivityRepository(db),
		ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:    client.Disconnect,
	}
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend's connections.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
