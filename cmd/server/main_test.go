package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/99minutos/notes-api/internal/pkg/config"
)

func TestRun_StopsOnCancelledContext(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg, err := config.LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":             "0",
		"STORAGE_DRIVER":   "memory",
		"REDIS_ENABLED":    "true",
		"REDIS_ADDR":       mr.Addr(),
		"SHUTDOWN_TIMEOUT": "2s",
	}))
	if err != nil {
		t.Fatalf("LoadWith error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, zerolog.Nop()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
}

func TestCloseRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	closeRedis(rdb, zerolog.Nop())

	if err := rdb.Ping(context.Background()).Err(); err == nil {
		t.Fatal("expected closed client")
	}
}
