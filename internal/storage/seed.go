package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/ratebot/core/logger"
)

// AdminSeeder makes sure one privileged chat exists after startup.
type AdminSeeder struct {
	ChatID int64
}

// Seed inserts the configured chat id if absent. Zero falls back to DefaultAdminChatID.
func (s AdminSeeder) Seed(ctx context.Context, db *sqlx.DB) error {
	id := s.ChatID
	if id == 0 {
		id = DefaultAdminChatID
	}
	created, err := NewAdminRepository(db).Add(ctx, id)
	if err != nil {
		logger.SEED.ErrorContext(ctx, "admin seed failed",
			slog.String("event", "seed.admin"),
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("seed admin: %w", err)
	}
	status := "ok"
	if !created {
		status = "skip"
	}
	logger.SEED.InfoContext(ctx, "admin seeded",
		slog.String("event", "seed.admin"),
		slog.String("status", status),
		slog.Int64("chat_id", id),
	)
	return nil
}
