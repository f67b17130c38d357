package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/Masterminds/squirrel"
)

// DefaultAdminChatID is seeded when no admin id is configured.
const DefaultAdminChatID int64 = 918034698

// AdminRepository answers privilege lookups against the admins table.
// Chat ids are stored as text.
type AdminRepository struct {
	q Querier
}

// NewAdminRepository builds a repository over q.
func NewAdminRepository(q Querier) *AdminRepository {
	return &AdminRepository{q: q}
}

// IsPrivileged reports whether id is present in the admins table.
func (r *AdminRepository) IsPrivileged(ctx context.Context, id int64) (bool, error) {
	query, args, err := psql.Select("1").
		From(tableAdmins).
		Where(squirrel.Eq{colChatID: strconv.FormatInt(id, 10)}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build admin query: %w", err)
	}
	var one int
	err = r.q.GetContext(ctx, &one, query, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("admin lookup: %w", err)
	}
	return true, nil
}

// Add inserts id unless it is already present and reports whether a row was created.
func (r *AdminRepository) Add(ctx context.Context, id int64) (bool, error) {
	query, args, err := psql.Insert(tableAdmins).
		Columns(colChatID).
		Values(strconv.FormatInt(id, 10)).
		Suffix("ON CONFLICT (" + colChatID + ") DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build admin insert: %w", err)
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("admin insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("admin insert: rows affected: %w", err)
	}
	return n > 0, nil
}
