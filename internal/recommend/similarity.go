package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/cinerec/cinerec/internal/domain"
)

// ContentSimilarity scores unseen movies by weighted feature overlap with
// the movies a viewer has already rated: genre 40%, director 20%, cast 20%,
// release-year proximity 20%. A candidate keeps the best score it achieves
// against any single watched movie.
type ContentSimilarity struct {
	catalog MovieCatalog
	ratings RatingSource
}

// Recommend returns up to count scored candidates for the viewer. Candidates
// are pre-filtered by the query-time tier ceiling and checked again against
// the final age gate.
func (r *ContentSimilarity) Recommend(ctx context.Context, viewerID string, exclude []string, count int, age *int) ([]Scored, error) {
	events, err := r.ratings.ByViewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	watched := make([]domain.Movie, 0, len(events))
	for _, ev := range events {
		m, ok, err := r.catalog.Lookup(ctx, ev.MovieID)
		if err != nil {
			return nil, err
		}
		if ok {
			watched = append(watched, m)
		}
	}

	scores := make(map[string]float64)
	movies := make(map[string]domain.Movie)
	var order []string

	for _, w := range watched {
		candidates, err := r.catalog.Find(ctx, MovieFilter{
			ExcludeIDs: append(append([]string{}, exclude...), w.ID),
			Tiers:      TierCeiling(age),
		})
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			if !Appropriate(c, age) {
				continue
			}
			score := similarityScore(w, c)
			if score <= 0 {
				continue
			}
			if prev, ok := scores[c.ID]; ok {
				if score > prev {
					scores[c.ID] = score
				}
			} else {
				scores[c.ID] = score
				movies[c.ID] = c
				order = append(order, c.ID)
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	results := make([]Scored, 0, count)
	for _, id := range order {
		if len(results) >= count {
			break
		}
		results = append(results, Scored{Movie: movies[id], Score: scores[id]})
	}
	return results, nil
}

func similarityScore(watched, candidate domain.Movie) float64 {
	var score float64

	wg := labelSet(watched.Genres(), false)
	cg := labelSet(candidate.Genres(), false)
	if len(wg) > 0 && len(cg) > 0 {
		if common := intersectCount(wg, cg); common > 0 {
			score += 0.4 * float64(common) / float64(max(len(wg), len(cg)))
		}
	}

	if watched.Director != "" && candidate.Director != "" &&
		strings.EqualFold(watched.Director, candidate.Director) {
		score += 0.2
	}

	wc := labelSet(watched.CastMembers(), true)
	cc := labelSet(candidate.CastMembers(), true)
	if len(wc) > 0 && len(cc) > 0 {
		if common := intersectCount(wc, cc); common > 0 {
			score += 0.2 * float64(common) / float64(max(len(wc), len(cc), 1))
		}
	}

	if watched.Year != 0 && candidate.Year != 0 {
		gap := watched.Year - candidate.Year
		if gap < 0 {
			gap = -gap
		}
		switch {
		case gap <= 5:
			score += 0.2
		case gap <= 10:
			score += 0.1
		case gap <= 20:
			score += 0.05
		}
	}

	return score
}

func labelSet(labels []string, lower bool) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if lower {
			l = strings.ToLower(l)
		}
		set[l] = struct{}{}
	}
	return set
}

func intersectCount(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
