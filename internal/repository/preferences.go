package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinerec/cinerec/internal/domain"
)

// PreferencesRepository manages viewer genre-preference sets.
type PreferencesRepository struct {
	pool *pgxpool.Pool
}

// PreferenceParams is one entry of a replacement preference set.
type PreferenceParams struct {
	Genre  string
	Weight float64
}

// Replace atomically discards the viewer's prior preference set and
// installs the new one, preserving the given order. Preferences are never
// merged incrementally.
func (r *PreferencesRepository) Replace(ctx context.Context, viewerID string, prefs []PreferenceParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin preference replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM preferences WHERE viewer_id = $1`, viewerID); err != nil {
		return fmt.Errorf("clear preferences: %w", err)
	}
	for i, p := range prefs {
		weight := p.Weight
		if weight == 0 {
			weight = 1.0
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO preferences (viewer_id, genre, weight, position) VALUES ($1,$2,$3,$4)`,
			viewerID, p.Genre, weight, i)
		if err != nil {
			return fmt.Errorf("insert preference %q: %w", p.Genre, err)
		}
	}

	return tx.Commit(ctx)
}

// ByViewer returns the viewer's preferences in viewer-assigned order.
func (r *PreferencesRepository) ByViewer(ctx context.Context, viewerID string) ([]domain.GenrePreference, error) {
	const query = `
        SELECT viewer_id, genre, weight
        FROM preferences
        WHERE viewer_id = $1
        ORDER BY position
    `
	rows, err := r.pool.Query(ctx, query, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := make([]domain.GenrePreference, 0)
	for rows.Next() {
		var p domain.GenrePreference
		if err := rows.Scan(&p.ViewerID, &p.Genre, &p.Weight); err != nil {
			return nil, err
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return prefs, nil
}
