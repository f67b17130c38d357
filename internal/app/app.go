// Package app wires storage, sessions, flows and the Telegram runtime together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/ratebot/core/bootstrap"
	coreconfig "github.com/m3rciful/ratebot/core/config"
	"github.com/m3rciful/ratebot/core/logger"
	tg "github.com/m3rciful/ratebot/core/telegram"
	tgrouter "github.com/m3rciful/ratebot/core/telegram/router"
	"github.com/m3rciful/ratebot/core/telegram/state"
	"github.com/m3rciful/ratebot/internal/bot"
	"github.com/m3rciful/ratebot/internal/flow"
	"github.com/m3rciful/ratebot/internal/health"
	"github.com/m3rciful/ratebot/internal/storage"
)

// App holds the constructed components of a running bot.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	redis    *redis.Client
	sessions state.Manager
	handler  *bot.Handler
	registry *tg.Registry
	health   *health.Server
}

// Bootstrap initializes logging and storage, seeds the admin and builds the flows.
func Bootstrap(ctx context.Context, cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	res, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
		Seeders:  []bootstrap.Seeder{storage.AdminSeeder{ChatID: cfg.Telegram.AdminID}},
	})
	if err != nil {
		return nil, err
	}
	a, err := build(ctx, cfg, res.DB)
	if err != nil {
		_ = res.DB.Close()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, cfg *Config, db *sqlx.DB) (*App, error) {
	a := &App{cfg: cfg, db: db}

	sessions, client, err := newSessions(ctx, cfg.Session)
	if err != nil {
		return nil, err
	}
	a.sessions, a.redis = sessions, client

	reg, err := bot.NewRegistry()
	if err != nil {
		a.closeRedis()
		return nil, fmt.Errorf("app: command registry: %w", err)
	}
	a.registry = reg

	router := flow.NewRouter(sessions, storage.NewRateRepository(db), storage.NewAdminRepository(db))
	a.handler = bot.NewHandler(router)

	if cfg.Health.Listen != "" {
		a.health = health.NewServer(cfg.Health.Listen, a.healthChecks())
	}
	return a, nil
}

func newSessions(ctx context.Context, cfg coreconfig.SessionConfig) (state.Manager, *redis.Client, error) {
	if cfg.Backend != coreconfig.SessionRedis {
		logger.Info(ctx, logger.CompSession, "session.backend",
			slog.String("status", "ok"),
			slog.String("backend", coreconfig.SessionMemory),
			slog.Duration("ttl", cfg.TTL),
		)
		return state.NewMemoryManager(state.WithTTL(cfg.TTL)), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("app: redis ping: %w", err)
	}
	logger.Info(ctx, logger.CompSession, "session.backend",
		slog.String("status", "ok"),
		slog.String("backend", coreconfig.SessionRedis),
		slog.String("addr", cfg.Redis.Addr),
		slog.Duration("ttl", cfg.TTL),
	)
	return state.NewRedisManager(client, cfg.Redis.Prefix, cfg.TTL), client, nil
}

func (a *App) healthChecks() map[string]health.Check {
	checks := map[string]health.Check{
		"postgres": a.db.PingContext,
	}
	if a.redis != nil {
		client := a.redis
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return checks
}

// TelegramRunOptions assembles the runtime options for core/telegram.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	adminChat := a.cfg.Telegram.AdminID
	if adminChat == 0 {
		adminChat = storage.DefaultAdminChatID
	}
	return tg.RunOptions{
		Config:          &a.cfg.Config,
		Registry:        a.registry,
		Middlewares:     tg.DefaultMiddlewares(&a.cfg.Config, bot.RateLimited),
		Routes:          tgrouter.TextRoutes(a.handler, tgrouter.TextOptions{}),
		PrivilegedChats: []int64{adminChat},
		OnStart:         a.start,
		OnStop:          a.stop,
	}, nil
}

func (a *App) start(ctx context.Context, _ tg.Runtime) error {
	if a.health == nil {
		return nil
	}
	return a.health.Start(ctx)
}

func (a *App) stop(ctx context.Context, _ tg.Runtime) error {
	var errs []error
	if a.health != nil {
		if err := a.health.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("health shutdown: %w", err))
		}
	}
	a.closeRedis()
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("db close: %w", err))
	}
	logger.Info(ctx, logger.CompApp, "app.stopped", slog.String("status", logger.Status(errors.Join(errs...))))
	return errors.Join(errs...)
}

func (a *App) closeRedis() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
