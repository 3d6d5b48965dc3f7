package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WillJkdev/API-REST-Movies/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrInvalidID indicates an identifier outside the canonical UUID text form.
// It is returned before any query executes.
var ErrInvalidID = errors.New("repository: invalid identifier")

// ConflictError reports an attempt to create an entity that already exists.
// For movies, ExistingID carries the id of the record that owns the
// (title, year) pair, when known.
type ConflictError struct {
	ExistingID string
}

func (e *ConflictError) Error() string {
	if e.ExistingID == "" {
		return "repository: already exists"
	}
	return fmt.Sprintf("repository: already exists as %s", e.ExistingID)
}

// RelationError reports genre or cast names that resolve to no lookup row.
// Any occurrence aborts the enclosing write transaction.
type RelationError struct {
	Kind  string
	Names []string
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("repository: unknown %s name(s): %s", e.Kind, strings.Join(e.Names, ", "))
}

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies *MoviesRepository
	Genres *LookupRepository
	Cast   *LookupRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies: &MoviesRepository{pool: pool},
		Genres: NewGenreRepository(pool),
		Cast:   NewCastRepository(pool),
	}
}
