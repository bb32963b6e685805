// @title                       Notes API
// @version                     1.0
// @description                 Personal notes with session-token authentication.
// @BasePath                    /
// @securityDefinitions.apikey  SessionToken
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/notes-api/internal/api"
	"github.com/99minutos/notes-api/internal/core/ports"
	"github.com/99minutos/notes-api/internal/core/service"
	"github.com/99minutos/notes-api/internal/infrastructure/activity"
	"github.com/99minutos/notes-api/internal/infrastructure/db/redis"
	"github.com/99minutos/notes-api/internal/infrastructure/http/handlers"
	"github.com/99minutos/notes-api/internal/infrastructure/storage"
	"github.com/99minutos/notes-api/internal/pkg/config"
	"github.com/99minutos/notes-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Service: "notes-api"})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "notes-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	readiness := map[string]handlers.Pinger{store.Driver: store}

	var cache ports.SessionCache
	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer closeRedis(rdb, log)

		sc := redis.NewSessionCache(rdb, cfg.Redis.TTL)
		cache = sc
		readiness["redis"] = sc
		log.Info().Str("addr", cfg.Redis.Addr).Msg("session cache enabled")
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	dispatcher := activity.NewDispatcher(
		cfg.ActivityWorkers,
		service.NewActivityService(store.Activity, logger.Component("activity")),
		log,
	)
	dispatcher.Start(workerCtx)

	authService := service.NewAuthService(store.Users, store.Sessions, store.Notes, dispatcher, cfg.BcryptCost, logger.Component("auth"))
	noteService := service.NewNoteService(store.Notes, dispatcher, logger.Component("notes"))
	gate := service.NewSessionGate(store.Sessions, store.Users, cache, logger.Component("session"))

	e := api.NewRouter(api.RouterOptions{
		AuthService:   authService,
		NoteService:   noteService,
		Authenticator: gate,
		Readiness:     readiness,
		AllowOrigins:  cfg.HTTP.AllowOrigins,
		Logger:        log,
	})
	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", store.Driver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	dispatcher.Close()

	log.Info().Msg("server stopped")
	return nil
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close redis")
	}
}
