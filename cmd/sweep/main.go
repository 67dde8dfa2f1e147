// Command sweep reports how many active group invitations have passed their
// expiry. It is meant to be run by an external periodic trigger (cron); it
// never mutates invitation state.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"

	"householdhub/config"
	"householdhub/internal/adapters/token"
	"householdhub/internal/repository/postgres"
	"householdhub/internal/services"
)

func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("sweep failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return err
	}

	invitations := services.NewInvitationService(
		postgres.NewInvitationRepository(db),
		postgres.NewMembershipRepository(db),
		token.NewGenerator(),
	)

	now := time.Now()
	count, err := invitations.CountExpired(ctx, now)
	if err != nil {
		return err
	}
	logger.Info("expired invitation sweep", "expired_active_invitations", count, "as_of", now)
	return nil
}
