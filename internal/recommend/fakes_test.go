package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/cinerec/cinerec/internal/domain"
)

// fakeCatalog is an in-memory MovieCatalog honoring the full MovieFilter
// contract, so strategy tests exercise the same query semantics the SQL
// implementation provides.
type fakeCatalog struct {
	movies []domain.Movie
	err    error
}

func (c *fakeCatalog) Lookup(_ context.Context, id string) (domain.Movie, bool, error) {
	if c.err != nil {
		return domain.Movie{}, false, c.err
	}
	for _, m := range c.movies {
		if m.ID == id {
			return m, true, nil
		}
	}
	return domain.Movie{}, false, nil
}

func (c *fakeCatalog) Find(_ context.Context, filter MovieFilter) ([]domain.Movie, error) {
	if c.err != nil {
		return nil, c.err
	}
	excluded := make(map[string]struct{}, len(filter.ExcludeIDs))
	for _, id := range filter.ExcludeIDs {
		excluded[id] = struct{}{}
	}
	tiers := make(map[string]struct{}, len(filter.Tiers))
	for _, t := range filter.Tiers {
		tiers[t] = struct{}{}
	}

	var out []domain.Movie
	for _, m := range c.movies {
		if _, skip := excluded[m.ID]; skip {
			continue
		}
		if len(filter.GenresAny) > 0 && !genreMatches(m.Genre, filter.GenresAny) {
			continue
		}
		if filter.Tiers != nil && m.AgeRating != nil {
			if _, ok := tiers[*m.AgeRating]; !ok {
				continue
			}
		}
		out = append(out, m)
	}

	if filter.NewestFirst {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func genreMatches(genre string, wanted []string) bool {
	lower := strings.ToLower(genre)
	for _, w := range wanted {
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

type fakeViewers struct {
	viewers map[string]domain.Viewer
	err     error
}

func (v *fakeViewers) Lookup(_ context.Context, id string) (domain.Viewer, bool, error) {
	if v.err != nil {
		return domain.Viewer{}, false, v.err
	}
	viewer, ok := v.viewers[id]
	return viewer, ok, nil
}

type fakeRatings struct {
	events []domain.RatingEvent
	err    error
}

func (r *fakeRatings) ByViewer(_ context.Context, viewerID string) ([]domain.RatingEvent, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.RatingEvent
	for _, ev := range r.events {
		if ev.ViewerID == viewerID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeRatings) All(_ context.Context) ([]domain.RatingEvent, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.events, nil
}

type fakePrefs struct {
	prefs map[string][]domain.GenrePreference
	err   error
}

func (p *fakePrefs) ByViewer(_ context.Context, viewerID string) ([]domain.GenrePreference, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.prefs[viewerID], nil
}

func mkMovie(id, title, genre string, year int, director, cast, ageRating string) domain.Movie {
	m := domain.Movie{
		ID:       id,
		Title:    title,
		Genre:    genre,
		Year:     year,
		Director: director,
		Cast:     cast,
	}
	if ageRating != "" {
		m.AgeRating = &ageRating
	}
	return m
}

func mkRating(viewerID, movieID string, score float64) domain.RatingEvent {
	return domain.RatingEvent{ViewerID: viewerID, MovieID: movieID, Score: score}
}

func intPtr(v int) *int { return &v }

// sampleCatalog is a small mixed-tier catalog shared by the strategy tests.
func sampleCatalog() []domain.Movie {
	return []domain.Movie{
		mkMovie("m-shawshank", "The Shawshank Redemption", "Drama", 1994, "Frank Darabont", "Tim Robbins, Morgan Freeman", "R"),
		mkMovie("m-inception", "Inception", "Action, Sci-Fi, Thriller", 2010, "Christopher Nolan", "Leonardo DiCaprio, Tom Hardy", "PG-13"),
		mkMovie("m-matrix", "The Matrix", "Action, Sci-Fi", 1999, "Lana Wachowski, Lilly Wachowski", "Keanu Reeves, Laurence Fishburne", "R"),
		mkMovie("m-darkknight", "The Dark Knight", "Action, Crime, Drama", 2008, "Christopher Nolan", "Christian Bale, Heath Ledger", "PG-13"),
		mkMovie("m-toystory", "Toy Story", "Animation, Adventure, Family", 1995, "John Lasseter", "Tom Hanks, Tim Allen", "G"),
		mkMovie("m-frozen", "Frozen", "Animation, Adventure, Family", 2013, "Chris Buck, Jennifer Lee", "Kristen Bell, Idina Menzel", "PG"),
		mkMovie("m-moana", "Moana", "Animation, Adventure, Family", 2016, "Ron Clements, John Musker", "Auli'i Cravalho, Dwayne Johnson", "PG"),
		mkMovie("m-hungergames", "The Hunger Games", "Action, Adventure, Sci-Fi", 2012, "Gary Ross", "Jennifer Lawrence, Josh Hutcherson", "PG-13"),
		mkMovie("m-starwars", "Star Wars: Episode IV - A New Hope", "Action, Adventure, Fantasy", 1977, "George Lucas", "Mark Hamill, Harrison Ford", "PG"),
		mkMovie("m-goodfellas", "Goodfellas", "Crime, Drama", 1990, "Martin Scorsese", "Robert De Niro, Ray Liotta", "R"),
	}
}
