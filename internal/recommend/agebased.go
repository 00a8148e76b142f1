package recommend

import (
	"context"

	"github.com/cinerec/cinerec/internal/domain"
)

// AgeBased produces age/genre-tiered candidate lists. It serves both as a
// primary signal for viewers with a known age and as the backfill source
// when the blended list comes up short.
type AgeBased struct {
	catalog MovieCatalog
}

// bandQuery is one priority step within an age band.
type bandQuery struct {
	genres []string
	tiers  []string
}

var (
	kidQueries = []bandQuery{
		{genres: []string{"Animation", "Family"}, tiers: []string{"G", "PG"}},
		{genres: []string{"Adventure", "Comedy"}, tiers: []string{"G", "PG"}},
		{tiers: []string{"G", "PG"}},
	}
	youthQueries = []bandQuery{
		{genres: []string{"Action", "Sci-Fi", "Adventure"}, tiers: []string{"PG-13", "PG"}},
		{genres: []string{"Comedy", "Thriller", "Drama"}, tiers: []string{"PG-13", "PG", "G"}},
		{tiers: []string{"PG-13", "PG", "G"}},
	}
	adultQueries = []bandQuery{
		{genres: []string{"Action", "Drama", "Thriller", "Crime"}},
		{},
	}
)

// Recommend returns up to count movies suitable for the given age, queried
// newest-first in descending genre priority. Movies in exclude and movies
// already selected by an earlier priority step are skipped.
func (r *AgeBased) Recommend(ctx context.Context, age int, exclude []string, count int) ([]domain.Movie, error) {
	if count <= 0 {
		return nil, nil
	}

	var queries []bandQuery
	switch {
	case age <= 12:
		queries = kidQueries
	case age < 18:
		queries = youthQueries
	default:
		queries = adultQueries
	}

	seen := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		seen[id] = struct{}{}
	}

	var selected []domain.Movie
	for i, q := range queries {
		if i > 0 && len(selected) >= count {
			break
		}
		limit := count * 2
		if i == len(queries)-1 {
			limit = count - len(selected)
		}
		excludeIDs := make([]string, 0, len(seen))
		for id := range seen {
			excludeIDs = append(excludeIDs, id)
		}
		movies, err := r.catalog.Find(ctx, MovieFilter{
			ExcludeIDs:  excludeIDs,
			GenresAny:   q.genres,
			Tiers:       q.tiers,
			NewestFirst: true,
			Limit:       limit,
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
