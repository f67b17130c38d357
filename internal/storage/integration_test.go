//go:build integration

package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m3rciful/ratebot/core/database"
	"github.com/m3rciful/ratebot/internal/currency"
)

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

func setupPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "currency_bot",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.Config{
		Host:     host,
		Port:     port.Port(),
		User:     "test",
		Password: "test",
		Name:     "currency_bot",
		SSLMode:  "disable",
	}
	require.NoError(t, database.Migrate(migrationsDir(t), cfg.URL()))

	db, err := database.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRepositoriesAgainstPostgres(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	rates := NewRateRepository(db)
	admins := NewAdminRepository(db)

	usd := currency.Record{Code: "USD", Rate: decimal.RequireFromString("90.5")}
	require.NoError(t, rates.Insert(ctx, usd))
	assert.ErrorIs(t, rates.Insert(ctx, usd), currency.ErrConflict)

	ok, err := rates.Exists(ctx, "USD")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, rates.Insert(ctx, currency.Record{Code: "EUR", Rate: decimal.RequireFromString("98.1")}))
	require.NoError(t, rates.Update(ctx, currency.Record{Code: "EUR", Rate: decimal.RequireFromString("99")}))
	assert.ErrorIs(t, rates.Update(ctx, currency.Record{Code: "GBP", Rate: decimal.NewFromInt(1)}), currency.ErrNotFound)

	list, err := rates.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, currency.Code("EUR"), list[0].Code)
	assert.Equal(t, "99.00", currency.FormatFixed2(list[0].Rate))
	assert.Equal(t, "90.50", currency.FormatFixed2(list[1].Rate))

	n, err := rates.Delete(ctx, "EUR")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = rates.Delete(ctx, "EUR")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, AdminSeeder{}.Seed(ctx, db))
	require.NoError(t, AdminSeeder{}.Seed(ctx, db), fmt.Sprintf("seeding twice is a no-op for %d", DefaultAdminChatID))
	ok, err = admins.IsPrivileged(ctx, DefaultAdminChatID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = admins.IsPrivileged(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
