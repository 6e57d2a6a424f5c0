package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	userpostgres "github.com/masayahak/go-order-app/internal/domains/users/adapters/persistence/postgres"
	platformpostgres "github.com/masayahak/go-order-app/internal/platform/postgres"
)

// One-shot cleanup of expired postgres sessions, intended for cron.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	db, cleanup := platformpostgres.ConnectOptional(ctx, logger, dsn)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	store := userpostgres.NewSessionStore(db)
	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	log.Printf("session purge completed, removed %d sessions", purged)
}
