package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/cinerec/cinerec/internal/domain"
)

// collaborativeMinRatings is the system-wide rating count above which the
// collaborative signal participates. At or below it the data is too sparse
// to find meaningful neighbors.
const collaborativeMinRatings = 10

// Blending weights applied when merging per-strategy scores into the shared
// score map. A strategy either seeds a movie's score or boosts an existing
// one; boosts use the smaller factor.
const (
	kidAgeSeed        = 0.8
	adultAgeSeed      = 0.6
	similarityBoost   = 0.5
	collabSeedFactor  = 0.4
	collabBoostFactor = 0.3
	preferenceSeed    = 0.5
	preferenceBoost   = 0.2
	backfillScore     = 0.3
)

// Recommend produces up to count scored, age-gated, deduplicated
// recommendations for the viewer. It always attempts to return count items
// but may return fewer when the catalog genuinely lacks enough
// age-appropriate unseen movies; that is not an error. A viewer id that
// does not resolve runs as an anonymous viewer with no age and no history.
func (e *Engine) Recommend(ctx context.Context, viewerID string, count int) ([]Recommendation, error) {
	if count <= 0 {
		count = DefaultCount
	}

	var age *int
	viewer, found, err := e.viewers.Lookup(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load viewer: %w", err)
	}
	if found {
		age = viewer.Age
	}

	events, err := e.ratings.ByViewer(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load viewer ratings: %w", err)
	}
	rated := make(map[string]struct{}, len(events))
	ratedIDs := make([]string, 0, len(events))
	for _, ev := range events {
		if _, dup := rated[ev.MovieID]; dup {
			continue
		}
		rated[ev.MovieID] = struct{}{}
		ratedIDs = append(ratedIDs, ev.MovieID)
	}

	scores := make(map[string]float64)
	var order []string
	seed := func(id string, value float64) {
		if _, ok := scores[id]; !ok {
			order = append(order, id)
		}
		scores[id] = value
	}
	boost := func(id string, delta float64) {
		if _, ok := scores[id]; !ok {
			order = append(order, id)
		}
		scores[id] += delta
	}

	// Age pass.
	if age != nil {
		movies, err := e.ageBased.Recommend(ctx, *age, ratedIDs, count*2)
		if err != nil {
			return nil, fmt.Errorf("age-based pass: %w", err)
		}
		value := adultAgeSeed
		if *age < 13 {
			value = kidAgeSeed
		}
		for _, m := range movies {
			if _, skip := rated[m.ID]; skip {
				continue
			}
			seed(m.ID, value)
		}
	}

	// Similarity pass.
	if len(events) > 0 {
		similar, err := e.similarity.Recommend(ctx, viewerID, ratedIDs, count*2, age)
		if err != nil {
			return nil, fmt.Errorf("similarity pass: %w", err)
		}
		for _, s := range similar {
			if _, skip := rated[s.Movie.ID]; skip {
				continue
			}
			if !Appropriate(s.Movie, age) {
				continue
			}
			if _, ok := scores[s.Movie.ID]; !ok {
				seed(s.Movie.ID, s.Score)
			} else {
				boost(s.Movie.ID, s.Score*similarityBoost)
			}
		}
	}

	// Collaborative pass, gated on system-wide rating volume.
	if len(events) > 0 {
		all, err := e.ratings.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("count system ratings: %w", err)
		}
		if len(all) > collaborativeMinRatings {
			result := e.collaborative.Recommend(ctx, viewerID, ratedIDs, count, age)
			for _, s := range result.Movies {
				if _, skip := rated[s.Movie.ID]; skip {
					continue
				}
				if !Appropriate(s.Movie, age) {
					continue
				}
				if _, ok := scores[s.Movie.ID]; !ok {
					seed(s.Movie.ID, s.Score*collabSeedFactor)
				} else {
					boost(s.Movie.ID, s.Score*collabBoostFactor)
				}
			}
		}
	}

	// Preference pass.
	preferred, err := e.preference.Recommend(ctx, viewerID, count*2, age, ratedIDs)
	if err != nil {
		return nil, fmt.Errorf("preference pass: %w", err)
	}
	for _, m := range preferred {
		if _, skip := rated[m.ID]; skip {
			continue
		}
		if !Appropriate(m, age) {
			continue
		}
		if _, ok := scores[m.ID]; !ok {
			seed(m.ID, preferenceSeed)
		} else {
			boost(m.ID, preferenceBoost)
		}
	}

	// Rank by blended score, ties broken by first insertion.
	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })
	if len(order) > count*2 {
		order = order[:count*2]
	}

	recs := make([]Recommendation, 0, count)
	collected := make(map[string]struct{}, count)
	for _, id := range order {
		if len(recs) >= count {
			break
		}
		m, ok, err := e.catalog.Lookup(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("materialize candidate: %w", err)
		}
		if !ok {
			continue
		}
		if !Appropriate(m, age) {
			continue
		}
		score := scores[id]
		if score > 1.0 {
			score = 1.0
		}
		recs = append(recs, Recommendation{Movie: m, Score: score})
		collected[id] = struct{}{}
	}

	// Backfill a short list with lower-confidence fallbacks.
	if len(recs) < count {
		excludeAll := make([]string, 0, len(ratedIDs)+len(collected))
		excludeAll = append(excludeAll, ratedIDs...)
		for id := range collected {
			excludeAll = append(excludeAll, id)
		}
		var movies []domain.Movie
		var err error
		if age != nil {
			movies, err = e.ageBased.Recommend(ctx, *age, excludeAll, count-len(recs))
		} else {
			movies, err = e.catalog.Find(ctx, MovieFilter{
				ExcludeIDs: excludeAll,
				Limit:      count - len(recs),
			})
		}
		if err != nil {
			return nil, fmt.Errorf("backfill: %w", err)
		}
		for _, m := range movies {
			if !Appropriate(m, age) {
				continue
			}
			recs = append(recs, Recommendation{Movie: m, Score: backfillScore})
		}
	}

	return recs, nil
}
