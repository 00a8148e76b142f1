package recommend

import (
	"context"

	"github.com/cinerec/cinerec/internal/domain"
)

// perGenreLimit caps how many movies a single preferred genre contributes.
const perGenreLimit = 5

// PreferenceBased ranks movies by a viewer's explicit genre preferences,
// queried in the order the viewer assigned them. With no preferences on
// file it falls back to the age-based recommender, or to the newest catalog
// movies when no age is known either.
type PreferenceBased struct {
	catalog  MovieCatalog
	prefs    PreferenceSource
	ageBased *AgeBased
}

// Recommend returns up to count movies, deduplicated in first-seen order.
func (r *PreferenceBased) Recommend(ctx context.Context, viewerID string, count int, age *int, exclude []string) ([]domain.Movie, error) {
	prefs, err := r.prefs.ByViewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if len(prefs) == 0 {
		if age != nil {
			return r.ageBased.Recommend(ctx, *age, exclude, count)
		}
		return r.catalog.Find(ctx, MovieFilter{
			ExcludeIDs:  exclude,
			Tiers:       TierCeiling(age),
			NewestFirst: true,
			Limit:       count,
		})
	}

	seen := make(map[string]struct{})
	var selected []domain.Movie
	for _, pref := range prefs {
		movies, err := r.catalog.Find(ctx, MovieFilter{
			GenresAny: []string{pref.Genre},
			Tiers:     TierCeiling(age),
			Limit:     perGenreLimit,
		})
		if err != nil {
			return nil, err
		}
		for _, m := range movies {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			selected = append(selected, m)
		}
	}

	if len(selected) > count {
		selected = selected[:count]
	}
	return selected, nil
}
