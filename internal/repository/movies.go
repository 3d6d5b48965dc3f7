package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WillJkdev/API-REST-Movies/internal/domain"
	"github.com/WillJkdev/API-REST-Movies/internal/identifier"
)

// MoviesRepository owns all read/write access to the movie entity and its
// genre/cast join tables. Multi-statement writes run in a single transaction;
// a failure at any step rolls back the whole operation.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const (
	defaultPage  = 1
	defaultLimit = 30
	maxLimit     = 100
)

// movieColumns is the read shape shared by List, GetByID and the post-update
// re-read. Relation names are aggregated alphabetically into one string per
// side, empty when the movie has no rows in that join table.
const movieColumns = `
    m.id::text,
    m.title,
    m.year,
    m.extract,
    m.rate::float8,
    m.thumbnail,
    m.thumbnail_width,
    m.thumbnail_height,
    m.href,
    COALESCE((
        SELECT string_agg(g.name, ', ' ORDER BY g.name)
        FROM genre g
        JOIN movie_genre mg ON mg.genre_id = g.id
        WHERE mg.movie_id = m.id
    ), '') AS genres,
    COALESCE((
        SELECT string_agg(c.name, ', ' ORDER BY c.name)
        FROM cast_member c
        JOIN movie_cast mc ON mc.cast_id = c.id
        WHERE mc.movie_id = m.id
    ), '') AS cast
`

// MovieCreateParams bundles the validated fields required to create a movie.
type MovieCreateParams struct {
	Title           string
	Year            int
	Extract         string
	Rate            float64
	Thumbnail       string
	ThumbnailWidth  int
	ThumbnailHeight int
	Href            string
	Genres          []string
	Cast            []string
}

// MovieUpdateParams carries a partial update; nil fields are left untouched.
// A non-empty Genres or Cast slice fully replaces that relation set.
type MovieUpdateParams struct {
	Title           *string
	Year            *int
	Extract         *string
	Rate            *float64
	Thumbnail       *string
	ThumbnailWidth  *int
	ThumbnailHeight *int
	Href            *string
	Genres          []string
	Cast            []string
}

// MovieListFilters encapsulates search and pagination options. All supplied
// filters combine conjunctively.
type MovieListFilters struct {
	Genre *string
	Cast  *string
	Year  *int
	Title *string
	Rate  *float64
	Page  int
	Limit int
}

// buildMovieWhere renders the WHERE clause shared by List and Count so the
// two can never disagree about which rows match. Values only ever travel as
// bound parameters.
func buildMovieWhere(filters MovieListFilters) (string, []interface{}) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Genre != nil && strings.TrimSpace(*filters.Genre) != "" {
		name := strings.ToLower(strings.TrimSpace(*filters.Genre))
		where = append(where, fmt.Sprintf(`m.id IN (
            SELECT mg.movie_id FROM movie_genre mg
            JOIN genre g ON g.id = mg.genre_id
            WHERE lower(g.name) = %s)`, arg(name)))
	}
	if filters.Cast != nil && strings.TrimSpace(*filters.Cast) != "" {
		name := strings.ToLower(strings.TrimSpace(*filters.Cast))
		where = append(where, fmt.Sprintf(`m.id IN (
            SELECT mc.movie_id FROM movie_cast mc
            JOIN cast_member c ON c.id = mc.cast_id
            WHERE lower(c.name) = %s)`, arg(name)))
	}
	if filters.Year != nil {
		where = append(where, fmt.Sprintf("m.year = %s", arg(*filters.Year)))
	}
	if filters.Title != nil && strings.TrimSpace(*filters.Title) != "" {
		where = append(where, fmt.Sprintf("m.title ILIKE %s", arg("%"+strings.TrimSpace(*filters.Title)+"%")))
	}
	if filters.Rate != nil {
		where = append(where, fmt.Sprintf("m.rate >= %s", arg(*filters.Rate)))
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// List returns movies matching the provided filters, paginated. Out-of-range
// page/limit values are clamped rather than rejected; range enforcement is
// the caller's job.
func (r *MoviesRepository) List(ctx context.Context, filters MovieListFilters) ([]domain.Movie, error) {
	page := filters.Page
	if page < defaultPage {
		page = defaultPage
	}
	limit := filters.Limit
	if limit < 1 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	whereClause, args := buildMovieWhere(filters)
	query := fmt.Sprintf("SELECT %s FROM movie m%s ORDER BY m.created_at, m.id LIMIT $%d OFFSET $%d",
		movieColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0, limit)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("list movies: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// Count returns the pagination-independent total for the same filters List
// accepts.
func (r *MoviesRepository) Count(ctx context.Context, filters MovieListFilters) (int64, error) {
	whereClause, args := buildMovieWhere(filters)

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM movie m"+whereClause, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return total, nil
}

// GetByID fetches a movie with both relation sets aggregated. A non-canonical
// id returns ErrInvalidID without touching storage.
func (r *MoviesRepository) GetByID(ctx context.Context, id string) (domain.Movie, error) {
	bin, err := identifier.ToBinary(id)
	if err != nil {
		return domain.Movie{}, ErrInvalidID
	}

	query := fmt.Sprintf("SELECT %s FROM movie m WHERE m.id = $1", movieColumns)
	movie, err := scanMovie(r.pool.QueryRow(ctx, query, bin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, fmt.Errorf("get movie %s: %w", id, err)
	}
	return movie, nil
}

// Create inserts the movie row and its join rows atomically. A (title, year)
// collision returns ConflictError carrying the existing id; an unresolved
// genre/cast name rolls back the whole transaction so no partial movie or
// partial relations persist. The id is generated by the database at insert
// time.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (domain.Movie, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("create movie: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var existingID string
	err = tx.QueryRow(ctx, "SELECT id::text FROM movie WHERE title = $1 AND year = $2",
		params.Title, params.Year).Scan(&existingID)
	switch {
	case err == nil:
		return domain.Movie{}, &ConflictError{ExistingID: existingID}
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.Movie{}, fmt.Errorf("create movie: duplicate check: %w", err)
	}

	href := params.Href
	if href == "" {
		href = defaultHref(params.Title, params.Year)
	}

	var id string
	err = tx.QueryRow(ctx, `
        INSERT INTO movie (title, year, extract, rate, thumbnail, thumbnail_width, thumbnail_height, href)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id::text
    `, params.Title, params.Year, params.Extract, params.Rate, params.Thumbnail,
		params.ThumbnailWidth, params.ThumbnailHeight, href).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a race against a concurrent create of the same (title, year).
			return domain.Movie{}, &ConflictError{}
		}
		return domain.Movie{}, fmt.Errorf("create movie: insert: %w", err)
	}

	bin, err := identifier.ToBinary(id)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("create movie: %w", err)
	}

	if err := insertRelations(ctx, tx, relationGenres, bin, params.Genres); err != nil {
		return domain.Movie{}, err
	}
	if err := insertRelations(ctx, tx, relationCast, bin, params.Cast); err != nil {
		return domain.Movie{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Movie{}, fmt.Errorf("create movie: commit: %w", err)
	}

	return domain.Movie{
		ID:              id,
		Title:           params.Title,
		Year:            params.Year,
		Extract:         params.Extract,
		Rate:            params.Rate,
		Thumbnail:       params.Thumbnail,
		ThumbnailWidth:  params.ThumbnailWidth,
		ThumbnailHeight: params.ThumbnailHeight,
		Href:            href,
		Genres:          joinNames(params.Genres),
		Cast:            joinNames(params.Cast),
	}, nil
}

// Update applies a partial field update and, when a non-empty relation list
// is supplied, replaces that relation set wholesale. Everything runs in one
// transaction; the returned movie is re-read inside it so the caller sees the
// merged fields and fresh aggregate strings.
func (r *MoviesRepository) Update(ctx context.Context, id string, params MovieUpdateParams) (domain.Movie, error) {
	bin, err := identifier.ToBinary(id)
	if err != nil {
		return domain.Movie{}, ErrInvalidID
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("update movie: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	set := make([]string, 0, 8)
	args := make([]interface{}, 0, 9)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.Title != nil {
		set = append(set, "title = "+arg(*params.Title))
	}
	if params.Year != nil {
		set = append(set, "year = "+arg(*params.Year))
	}
	if params.Extract != nil {
		set = append(set, "extract = "+arg(*params.Extract))
	}
	if params.Rate != nil {
		set = append(set, "rate = "+arg(*params.Rate))
	}
	if params.Thumbnail != nil {
		set = append(set, "thumbnail = "+arg(*params.Thumbnail))
	}
	if params.ThumbnailWidth != nil {
		set = append(set, "thumbnail_width = "+arg(*params.ThumbnailWidth))
	}
	if params.ThumbnailHeight != nil {
		set = append(set, "thumbnail_height = "+arg(*params.ThumbnailHeight))
	}
	if params.Href != nil {
		set = append(set, "href = "+arg(*params.Href))
	}

	if len(set) > 0 {
		set = append(set, "updated_at = now()")
		query := fmt.Sprintf("UPDATE movie SET %s WHERE id = %s", strings.Join(set, ", "), arg(bin))
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.Movie{}, &ConflictError{}
			}
			return domain.Movie{}, fmt.Errorf("update movie: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.Movie{}, ErrNotFound
		}
	} else {
		// Relation-only update still requires the movie to exist.
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM movie WHERE id = $1)", bin).Scan(&exists); err != nil {
			return domain.Movie{}, fmt.Errorf("update movie: %w", err)
		}
		if !exists {
			return domain.Movie{}, ErrNotFound
		}
	}

	if err := replaceRelations(ctx, tx, relationGenres, bin, params.Genres); err != nil {
		return domain.Movie{}, err
	}
	if err := replaceRelations(ctx, tx, relationCast, bin, params.Cast); err != nil {
		return domain.Movie{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM movie m WHERE m.id = $1", movieColumns)
	movie, err := scanMovie(tx.QueryRow(ctx, query, bin))
	if err != nil {
		return domain.Movie{}, fmt.Errorf("update movie: reread: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Movie{}, fmt.Errorf("update movie: commit: %w", err)
	}
	return movie, nil
}

// Delete removes a movie; its join rows go with it through the schema's
// ON DELETE CASCADE foreign keys, so no orphans remain.
func (r *MoviesRepository) Delete(ctx context.Context, id string) error {
	bin, err := identifier.ToBinary(id)
	if err != nil {
		return ErrInvalidID
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM movie WHERE id = $1)", bin).Scan(&exists); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	tag, err := r.pool.Exec(ctx, "DELETE FROM movie WHERE id = $1", bin)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete movie %s: no rows deleted", id)
	}
	return nil
}

// relationSpec names one side of the movie many-to-many pairs. All table and
// column names here are fixed constants, never caller input.
type relationSpec struct {
	kind      string
	lookup    string
	joinTable string
	joinCol   string
}

var (
	relationGenres = relationSpec{kind: "genre", lookup: "genre", joinTable: "movie_genre", joinCol: "genre_id"}
	relationCast   = relationSpec{kind: "cast", lookup: "cast_member", joinTable: "movie_cast", joinCol: "cast_id"}
)

// resolveNames maps lookup names to surrogate ids, deduplicated, requiring
// every requested name to resolve. The resolved == requested invariant is
// what keeps join rows from referencing lookup rows that do not exist.
func resolveNames(ctx context.Context, tx pgx.Tx, spec relationSpec, names []string) ([]int32, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT id, name FROM %s WHERE name = ANY($1)", spec.lookup)
	rows, err := tx.Query(ctx, query, names)
	if err != nil {
		return nil, fmt.Errorf("resolve %s names: %w", spec.kind, err)
	}
	defer rows.Close()

	found := make(map[string]int32, len(names))
	for rows.Next() {
		var id int32
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("resolve %s names: %w", spec.kind, err)
		}
		found[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve %s names: %w", spec.kind, err)
	}

	seen := make(map[string]struct{}, len(names))
	ids := make([]int32, 0, len(names))
	var missing []string
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		id, ok := found[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		ids = append(ids, id)
	}
	if len(missing) > 0 {
		return nil, &RelationError{Kind: spec.kind, Names: missing}
	}
	return ids, nil
}

func insertRelations(ctx context.Context, tx pgx.Tx, spec relationSpec, movieID [16]byte, names []string) error {
	ids, err := resolveNames(ctx, tx, spec, names)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf("INSERT INTO %s (movie_id, %s) SELECT $1, unnest($2::int[])", spec.joinTable, spec.joinCol)
	if _, err := tx.Exec(ctx, query, movieID, ids); err != nil {
		return fmt.Errorf("insert %s relations: %w", spec.kind, err)
	}
	return nil
}

// replaceRelations swaps a movie's full relation set for one side. An empty
// list leaves the existing rows untouched.
func replaceRelations(ctx context.Context, tx pgx.Tx, spec relationSpec, movieID [16]byte, names []string) error {
	if len(names) == 0 {
		return nil
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE movie_id = $1", spec.joinTable)
	if _, err := tx.Exec(ctx, query, movieID); err != nil {
		return fmt.Errorf("clear %s relations: %w", spec.kind, err)
	}
	return insertRelations(ctx, tx, spec, movieID, names)
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var m domain.Movie
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Year,
		&m.Extract,
		&m.Rate,
		&m.Thumbnail,
		&m.ThumbnailWidth,
		&m.ThumbnailHeight,
		&m.Href,
		&m.Genres,
		&m.Cast,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return m, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// defaultHref derives the catalog slug used when the caller supplies none:
// spaces become underscores, suffixed with the release year.
func defaultHref(title string, year int) string {
	return fmt.Sprintf("%s_(%d_film)", whitespace.ReplaceAllString(title, "_"), year)
}

// joinNames renders a name list the same way reads aggregate it.
func joinNames(names []string) string {
	if len(names) == 0 {
		return ""
	}
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
