// Package recommend blends four independent signals (age-appropriateness,
// content similarity, collaborative filtering, and explicit genre
// preference) into a single ranked recommendation list. Every call is a
// pure computation over a snapshot of the persistence collaborator's data;
// the engine never writes.
package recommend

import (
	"context"
	"log"

	"github.com/cinerec/cinerec/internal/domain"
)

// DefaultCount is the number of recommendations produced when the caller
// does not ask for a specific count.
const DefaultCount = 10

// MovieFilter narrows a catalog read. The zero value matches everything.
type MovieFilter struct {
	// ExcludeIDs removes already-rated or already-selected movies.
	ExcludeIDs []string
	// GenresAny keeps movies whose genre field contains at least one of
	// the given labels (substring match, case-insensitive).
	GenresAny []string
	// Tiers restricts the age rating to the given set; a nil slice means
	// no restriction. A non-nil set always admits movies with no rating
	// tier; the stricter per-movie gate happens in Appropriate.
	Tiers []string
	// NewestFirst orders by release year descending.
	NewestFirst bool
	// Limit caps the result size; zero means unlimited.
	Limit int
}

// MovieCatalog is the read contract over the movie catalog.
type MovieCatalog interface {
	// Lookup resolves a movie id. A stale id reports found=false, not an
	// error.
	Lookup(ctx context.Context, id string) (domain.Movie, bool, error)
	Find(ctx context.Context, filter MovieFilter) ([]domain.Movie, error)
}

// ViewerSource resolves viewer identities.
type ViewerSource interface {
	Lookup(ctx context.Context, id string) (domain.Viewer, bool, error)
}

// RatingSource exposes rating events for one viewer or system-wide.
type RatingSource interface {
	ByViewer(ctx context.Context, viewerID string) ([]domain.RatingEvent, error)
	All(ctx context.Context) ([]domain.RatingEvent, error)
}

// PreferenceSource exposes a viewer's genre preferences in the order the
// viewer assigned them.
type PreferenceSource interface {
	ByViewer(ctx context.Context, viewerID string) ([]domain.GenrePreference, error)
}

// Scored pairs a movie with a strategy-local score.
type Scored struct {
	Movie domain.Movie
	Score float64
}

// Recommendation is a final engine result; Score is always within [0,1].
type Recommendation struct {
	Movie domain.Movie
	Score float64
}

// Engine orchestrates the four recommendation strategies.
type Engine struct {
	viewers       ViewerSource
	catalog       MovieCatalog
	ratings       RatingSource
	ageBased      *AgeBased
	similarity    *ContentSimilarity
	collaborative *Collaborative
	preference    *PreferenceBased
	logger        *log.Logger
}

// New wires the engine against the persistence read contracts.
func New(viewers ViewerSource, catalog MovieCatalog, ratings RatingSource, prefs PreferenceSource, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	ageBased := &AgeBased{catalog: catalog}
	return &Engine{
		viewers:       viewers,
		catalog:       catalog,
		ratings:       ratings,
		ageBased:      ageBased,
		similarity:    &ContentSimilarity{catalog: catalog, ratings: ratings},
		collaborative: &Collaborative{catalog: catalog, ratings: ratings, logger: logger},
		preference:    &PreferenceBased{catalog: catalog, prefs: prefs, ageBased: ageBased},
		logger:        logger,
	}
}
