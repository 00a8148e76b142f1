package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinerec/cinerec/internal/domain"
)

// RatingsRepository provides helpers for viewer rating events.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

const ratingColumns = `viewer_id, movie_id, rating, review, created_at, updated_at`

// RatingUpsertParams captures the payload required to upsert a rating.
type RatingUpsertParams struct {
	ViewerID string
	MovieID  string
	Score    float64
	Review   *string
}

// Upsert inserts or updates a rating and indicates whether it was newly
// created. The (viewer, movie) pair is unique; resubmission updates the
// existing event in place.
func (r *RatingsRepository) Upsert(ctx context.Context, params RatingUpsertParams) (domain.RatingEvent, bool, error) {
	const query = `
        INSERT INTO ratings (viewer_id, movie_id, rating, review)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (viewer_id, movie_id)
        DO UPDATE SET rating = EXCLUDED.rating, review = EXCLUDED.review, updated_at = now()
        RETURNING ` + ratingColumns + `, (xmax = 0) AS inserted
    `

	var event domain.RatingEvent
	var inserted bool
	err := r.pool.QueryRow(ctx, query, params.ViewerID, params.MovieID, params.Score, params.Review).Scan(
		&event.ViewerID,
		&event.MovieID,
		&event.Score,
		&event.Review,
		&event.CreatedAt,
		&event.UpdatedAt,
		&inserted,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.RatingEvent{}, false, ErrNotFound
		}
		return domain.RatingEvent{}, false, err
	}
	return event, inserted, nil
}

// ByViewer returns all rating events for one viewer, oldest first.
func (r *RatingsRepository) ByViewer(ctx context.Context, viewerID string) ([]domain.RatingEvent, error) {
	const query = `
        SELECT ` + ratingColumns + `
        FROM ratings
        WHERE viewer_id = $1
        ORDER BY created_at, movie_id
    `
	rows, err := r.pool.Query(ctx, query, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRatings(rows)
}

// All returns every rating event in the system, oldest first.
func (r *RatingsRepository) All(ctx context.Context) ([]domain.RatingEvent, error) {
	const query = `
        SELECT ` + ratingColumns + `
        FROM ratings
        ORDER BY created_at, viewer_id, movie_id
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRatings(rows)
}

// CountByMovie returns the rating count per movie id.
func (r *RatingsRepository) CountByMovie(ctx context.Context) (map[string]int64, error) {
	const query = `SELECT movie_id, COUNT(*)::int8 FROM ratings GROUP BY movie_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var movieID string
		var count int64
		if err := rows.Scan(&movieID, &count); err != nil {
			return nil, err
		}
		counts[movieID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func collectRatings(rows pgx.Rows) ([]domain.RatingEvent, error) {
	events := make([]domain.RatingEvent, 0)
	for rows.Next() {
		var event domain.RatingEvent
		err := rows.Scan(
			&event.ViewerID,
			&event.MovieID,
			&event.Score,
			&event.Review,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
