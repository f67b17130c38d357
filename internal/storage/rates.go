package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m3rciful/ratebot/core/logger"
	"github.com/m3rciful/ratebot/internal/currency"
)

// RateRepository stores currency rates in the currencies table.
type RateRepository struct {
	q Querier
}

// NewRateRepository builds a repository over q.
func NewRateRepository(q Querier) *RateRepository {
	return &RateRepository{q: q}
}

// Exists reports whether code is stored.
func (r *RateRepository) Exists(ctx context.Context, code currency.Code) (bool, error) {
	query, args, err := psql.Select("1").
		From(tableCurrencies).
		Where(squirrel.Eq{colCode: string(code)}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}
	var one int
	err = r.q.GetContext(ctx, &one, query, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("currency exists %s: %w", code, err)
	}
	return true, nil
}

// Get returns the stored rate or currency.ErrNotFound.
func (r *RateRepository) Get(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	query, args, err := psql.Select(colRate).
		From(tableCurrencies).
		Where(squirrel.Eq{colCode: string(code)}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build get query: %w", err)
	}
	var rate decimal.Decimal
	err = r.q.GetContext(ctx, &rate, query, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return decimal.Zero, currency.ErrNotFound
	case err != nil:
		return decimal.Zero, fmt.Errorf("currency get %s: %w", code, err)
	}
	return rate, nil
}

// List returns every stored currency ordered by code.
func (r *RateRepository) List(ctx context.Context) ([]currency.Record, error) {
	query, args, err := psql.Select(colCode, colRate).
		From(tableCurrencies).
		OrderBy(colCode).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	var records []currency.Record
	if err := r.q.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("currency list: %w", err)
	}
	return records, nil
}

// Insert stores a new currency; an existing code yields currency.ErrConflict.
func (r *RateRepository) Insert(ctx context.Context, rec currency.Record) error {
	query, args, err := psql.Insert(tableCurrencies).
		Columns(colCode, colRate).
		Values(string(rec.Code), rec.Rate).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return currency.ErrConflict
		}
		return fmt.Errorf("currency insert %s: %w", rec.Code, err)
	}
	logger.Debug(ctx, logger.CompStore, "currency.insert",
		slog.String("currency", rec.Code.String()),
		slog.String("rate", rec.Rate.String()),
	)
	return nil
}

// Update replaces the rate of an existing currency; no matching row yields currency.ErrNotFound.
func (r *RateRepository) Update(ctx context.Context, rec currency.Record) error {
	query, args, err := psql.Update(tableCurrencies).
		Set(colRate, rec.Rate).
		Where(squirrel.Eq{colCode: string(rec.Code)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("currency update %s: %w", rec.Code, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("currency update %s: rows affected: %w", rec.Code, err)
	}
	if affected == 0 {
		return currency.ErrNotFound
	}
	logger.Debug(ctx, logger.CompStore, "currency.update",
		slog.String("currency", rec.Code.String()),
		slog.String("rate", rec.Rate.String()),
	)
	return nil
}

// Delete removes code and returns the number of deleted rows.
func (r *RateRepository) Delete(ctx context.Context, code currency.Code) (int64, error) {
	query, args, err := psql.Delete(tableCurrencies).
		Where(squirrel.Eq{colCode: string(code)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("currency delete %s: %w", code, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("currency delete %s: rows affected: %w", code, err)
	}
	logger.Debug(ctx, logger.CompStore, "currency.delete",
		slog.String("currency", code.String()),
		slog.Int64("affected", affected),
	)
	return affected, nil
}
