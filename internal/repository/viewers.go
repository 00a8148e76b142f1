package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinerec/cinerec/internal/domain"
)

// ViewersRepository provides persistence helpers for viewer identities.
type ViewersRepository struct {
	pool *pgxpool.Pool
}

// ViewerCreateParams captures the fields required to register a viewer.
type ViewerCreateParams struct {
	Username string
	Age      *int
}

const viewerColumns = `id, username, age, created_at`

// Create inserts a new viewer row and returns the stored entity.
func (r *ViewersRepository) Create(ctx context.Context, params ViewerCreateParams) (domain.Viewer, error) {
	const query = `
        INSERT INTO viewers (id, username, age)
        VALUES ($1,$2,$3)
        RETURNING ` + viewerColumns + `
    `
	row := r.pool.QueryRow(ctx, query, uuid.NewString(), params.Username, params.Age)
	return scanViewer(row)
}

// GetByID fetches a viewer by id.
func (r *ViewersRepository) GetByID(ctx context.Context, id string) (domain.Viewer, error) {
	const query = `SELECT ` + viewerColumns + ` FROM viewers WHERE id = $1`
	viewer, err := scanViewer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Viewer{}, ErrNotFound
		}
		return domain.Viewer{}, err
	}
	return viewer, nil
}

// Lookup resolves a viewer id for the recommendation engine; an unknown id
// is not an error.
func (r *ViewersRepository) Lookup(ctx context.Context, id string) (domain.Viewer, bool, error) {
	viewer, err := r.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return domain.Viewer{}, false, nil
		}
		return domain.Viewer{}, false, err
	}
	return viewer, true, nil
}

// UpdateAge sets or clears a viewer's age.
func (r *ViewersRepository) UpdateAge(ctx context.Context, id string, age *int) (domain.Viewer, error) {
	const query = `
        UPDATE viewers SET age = $2 WHERE id = $1
        RETURNING ` + viewerColumns + `
    `
	viewer, err := scanViewer(r.pool.QueryRow(ctx, query, id, age))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Viewer{}, ErrNotFound
		}
		return domain.Viewer{}, err
	}
	return viewer, nil
}

func scanViewer(row pgx.Row) (domain.Viewer, error) {
	var viewer domain.Viewer
	err := row.Scan(&viewer.ID, &viewer.Username, &viewer.Age, &viewer.CreatedAt)
	if err != nil {
		return domain.Viewer{}, err
	}
	return viewer, nil
}
