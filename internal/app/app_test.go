package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/ratebot/core/config"
	tg "github.com/m3rciful/ratebot/core/telegram"
	"github.com/m3rciful/ratebot/internal/storage"
)

func testConfig() *Config {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.RateLimit.IntervalMS = 500
	cfg.RateLimit.Burst = 3
	cfg.Session.Backend = coreconfig.SessionMemory
	return cfg
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func TestBuildMemoryBackend(t *testing.T) {
	db, mock := newMockDB(t)
	a, err := build(context.Background(), testConfig(), db)
	require.NoError(t, err)
	assert.Nil(t, a.redis)
	assert.Nil(t, a.health)

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	assert.Equal(t, []int64{storage.DefaultAdminChatID}, opts.PrivilegedChats)
	require.Len(t, opts.Routes, 1)

	names := make([]string, 0, len(opts.Middlewares))
	for _, mw := range opts.Middlewares {
		names = append(names, mw.Name)
	}
	assert.Equal(t, []string{"recover", "rate_limit", "logger", "metrics"}, names)

	mock.ExpectClose()
	require.NoError(t, opts.OnStart(context.Background(), tg.Runtime{}))
	require.NoError(t, opts.OnStop(context.Background(), tg.Runtime{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	db, _ := newMockDB(t)
	cfg := testConfig()
	cfg.Telegram.AdminID = 77
	cfg.Session.Backend = coreconfig.SessionRedis
	cfg.Session.Redis.Addr = mr.Addr()
	cfg.Session.Redis.Prefix = "t:"
	cfg.Health.Listen = "127.0.0.1:0"

	a, err := build(context.Background(), cfg, db)
	require.NoError(t, err)
	t.Cleanup(a.closeRedis)
	require.NotNil(t, a.redis)
	require.NotNil(t, a.health)

	checks := a.healthChecks()
	require.Contains(t, checks, "redis")
	require.Contains(t, checks, "postgres")
	assert.NoError(t, checks["redis"](context.Background()))

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	assert.Equal(t, []int64{77}, opts.PrivilegedChats)
}

func TestBuildRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	db, _ := newMockDB(t)
	cfg := testConfig()
	cfg.Session.Backend = coreconfig.SessionRedis
	cfg.Session.Redis.Addr = addr

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := build(ctx, cfg, db)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
telegram:
  admin_id: 42
  run_mode: longpoll
session:
  ttl: 15m
database:
  host: db.internal
  name: rates
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("BOT_TOKEN", "999:token")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "999:token", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.AdminID)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	assert.Equal(t, coreconfig.SessionMemory, cfg.Session.Backend)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "rates", cfg.Database.Name)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
