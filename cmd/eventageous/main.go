package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"eventageous/auth"
	"eventageous/calendar"
	"eventageous/config"
	"eventageous/server"
	"eventageous/session"
)

const sessionSweepInterval = time.Minute

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	client, err := calendar.NewClient(ctx, cfg.GoogleAPIKey, cfg.GoogleCalendarID, logger)
	if err != nil {
		logger.Error("failed to initialize calendar client", "err", err)
		os.Exit(1)
	}

	sessions := session.NewStore(session.Config{TTL: cfg.SessionTTL})
	flow := auth.NewFlow(cfg.OAuth)
	identity := auth.NewResolver(logger)

	srv := server.New(cfg, calendar.NewSource(client), flow, identity, sessions, logger)

	go sweepSessions(sessions, logger)

	logger.Info("eventageous listening", "addr", cfg.ListenAddr)
	if err := srv.Listen(); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

// sweepSessions periodically drops sessions past their inactivity deadline.
// Expiry is also enforced on access; the sweep keeps abandoned sessions from
// accumulating.
func sweepSessions(sessions *session.Store, logger *slog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		if n := sessions.PurgeExpired(); n > 0 {
			logger.Debug("purged expired sessions", "count", n)
		}
	}
}
