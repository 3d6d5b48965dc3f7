package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WillJkdev/API-REST-Movies/internal/domain"
)

// LookupRepository provides single-table CRUD for the name catalogs movies
// reference. The genre and cast tables share one shape, so one implementation
// parameterized by table name serves both sides.
type LookupRepository struct {
	pool  *pgxpool.Pool
	table string // fixed constant, never caller input
	kind  string
}

// NewGenreRepository returns the lookup repository over the genre table.
func NewGenreRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool, table: "genre", kind: "genre"}
}

// NewCastRepository returns the lookup repository over the cast table.
func NewCastRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool, table: "cast_member", kind: "cast"}
}

// List returns all rows ordered by name, optionally filtered by a name
// substring.
func (r *LookupRepository) List(ctx context.Context, name string) ([]domain.Lookup, error) {
	query := fmt.Sprintf("SELECT id, name FROM %s", r.table)
	args := make([]interface{}, 0, 1)
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		query += " WHERE name ILIKE $1"
		args = append(args, "%"+trimmed+"%")
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", r.kind, err)
	}
	defer rows.Close()

	items := make([]domain.Lookup, 0)
	for rows.Next() {
		var item domain.Lookup
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("list %ss: %w", r.kind, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %ss: %w", r.kind, err)
	}
	return items, nil
}

// GetByID fetches a single lookup row.
func (r *LookupRepository) GetByID(ctx context.Context, id int32) (domain.Lookup, error) {
	query := fmt.Sprintf("SELECT id, name FROM %s WHERE id = $1", r.table)

	var item domain.Lookup
	if err := r.pool.QueryRow(ctx, query, id).Scan(&item.ID, &item.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lookup{}, ErrNotFound
		}
		return domain.Lookup{}, fmt.Errorf("get %s %d: %w", r.kind, id, err)
	}
	return item, nil
}

// Create inserts a new named row; an existing name returns ConflictError with
// the owner's id.
func (r *LookupRepository) Create(ctx context.Context, name string) (domain.Lookup, error) {
	var existingID int32
	err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT id FROM %s WHERE name = $1", r.table), name).Scan(&existingID)
	switch {
	case err == nil:
		return domain.Lookup{}, &ConflictError{ExistingID: strconv.FormatInt(int64(existingID), 10)}
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.Lookup{}, fmt.Errorf("create %s: duplicate check: %w", r.kind, err)
	}

	var item domain.Lookup
	query := fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) RETURNING id, name", r.table)
	if err := r.pool.QueryRow(ctx, query, name).Scan(&item.ID, &item.Name); err != nil {
		if isUniqueViolation(err) {
			return domain.Lookup{}, &ConflictError{}
		}
		return domain.Lookup{}, fmt.Errorf("create %s: %w", r.kind, err)
	}
	return item, nil
}

// Update renames a lookup row.
func (r *LookupRepository) Update(ctx context.Context, id int32, name string) (domain.Lookup, error) {
	query := fmt.Sprintf("UPDATE %s SET name = $2 WHERE id = $1 RETURNING id, name", r.table)

	var item domain.Lookup
	if err := r.pool.QueryRow(ctx, query, id, name).Scan(&item.ID, &item.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lookup{}, ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.Lookup{}, &ConflictError{}
		}
		return domain.Lookup{}, fmt.Errorf("update %s %d: %w", r.kind, id, err)
	}
	return item, nil
}

// Delete removes a lookup row. Rows still referenced by a movie fail on the
// join table's foreign key and surface as a storage error.
func (r *LookupRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table), id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", r.kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
