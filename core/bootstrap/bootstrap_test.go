package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/ratebot/core/config"
	coredatabase "github.com/m3rciful/ratebot/core/database"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func noLogger(*coreconfig.Config) error { return nil }

func TestRunOrder(t *testing.T) {
	db, mock := newMockDB(t)
	var steps []string

	res, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			steps = append(steps, "connect")
			return db, nil
		},
		Migrate: func(context.Context, coredatabase.Config) error {
			steps = append(steps, "migrate")
			return nil
		},
		Seeders: []Seeder{
			SeederFunc(func(_ context.Context, got *sqlx.DB) error {
				assert.Same(t, db, got)
				steps = append(steps, "seed")
				return nil
			}),
		},
	})
	require.NoError(t, err)
	assert.Same(t, db, res.DB)
	assert.Equal(t, []string{"connect", "migrate", "seed"}, steps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunClosesOnSeedFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectClose()
	boom := errors.New("boom")

	_, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			return db, nil
		},
		Migrate: func(context.Context, coredatabase.Config) error { return nil },
		Seeders: []Seeder{SeederFunc(func(context.Context, *sqlx.DB) error { return boom })},
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRequiresConfig(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.Error(t, err)
}
