package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinerec/cinerec/internal/domain"
	"github.com/cinerec/cinerec/internal/recommend"
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    title,
    genre,
    release_year,
    director,
    cast_members,
    age_rating,
    created_at,
    updated_at
`

// MovieCreateParams bundles the fields required to create a movie.
type MovieCreateParams struct {
	Title     string
	Genre     string
	Year      int
	Director  string
	Cast      string
	AgeRating *string
}

// Create inserts a new movie row and returns the stored entity.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (domain.Movie, error) {
	query := fmt.Sprintf(`
        INSERT INTO movies (id, title, genre, release_year, director, cast_members, age_rating)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(), params.Title, params.Genre, params.Year, params.Director, params.Cast, params.AgeRating)
	return scanMovie(row)
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id string) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	row := r.pool.QueryRow(ctx, query, id)
	movie, err := scanMovie(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// Lookup resolves a movie id for the recommendation engine; a stale id is
// reported as not found rather than an error.
func (r *MoviesRepository) Lookup(ctx context.Context, id string) (domain.Movie, bool, error) {
	movie, err := r.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return domain.Movie{}, false, nil
		}
		return domain.Movie{}, false, err
	}
	return movie, true, nil
}

// Find returns movies matching the engine's predicate filter: exclusion
// set, genre substrings, rating-tier set (NULL tiers always admitted when a
// set is given), optional newest-first ordering, and limit.
func (r *MoviesRepository) Find(ctx context.Context, filter recommend.MovieFilter) ([]domain.Movie, error) {
	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.ExcludeIDs) > 0 {
		where = append(where, fmt.Sprintf("id != ALL(%s)", arg(filter.ExcludeIDs)))
	}
	if len(filter.GenresAny) > 0 {
		ors := make([]string, 0, len(filter.GenresAny))
		for _, g := range filter.GenresAny {
			ors = append(ors, fmt.Sprintf("genre ILIKE %s", arg("%"+g+"%")))
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}
	if filter.Tiers != nil {
		where = append(where, fmt.Sprintf("(age_rating = ANY(%s) OR age_rating IS NULL)", arg(filter.Tiers)))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(movieColumns)
	queryBuilder.WriteString(" FROM movies")
	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}
	if filter.NewestFirst {
		queryBuilder.WriteString(" ORDER BY release_year DESC, created_at DESC, id")
	} else {
		queryBuilder.WriteString(" ORDER BY created_at, id")
	}
	if filter.Limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT %d", filter.Limit))
	}

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// Search supports the catalog listing endpoint: optional title substring
// and genre substring, capped result size.
func (r *MoviesRepository) Search(ctx context.Context, titleQuery, genre string, limit int) ([]domain.Movie, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(titleQuery); q != "" {
		where = append(where, fmt.Sprintf("title ILIKE %s", arg("%"+q+"%")))
	}
	if g := strings.TrimSpace(genre); g != "" {
		where = append(where, fmt.Sprintf("genre ILIKE %s", arg("%"+g+"%")))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(movieColumns)
	queryBuilder.WriteString(" FROM movies")
	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY release_year DESC, created_at DESC, id")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT %d", limit))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.Year,
		&movie.Director,
		&movie.Cast,
		&movie.AgeRating,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}
