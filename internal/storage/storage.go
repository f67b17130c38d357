// Package storage persists currency rates and the privileged chat set in PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

const (
	tableCurrencies = "currencies"
	tableAdmins     = "admins"

	colCode   = "currency_name"
	colRate   = "rate"
	colChatID = "chat_id"

	pgUniqueViolation = "23505"
)

// Querier is the subset of *sqlx.DB and *sqlx.Tx used by the repositories.
type Querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
