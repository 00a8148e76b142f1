package recommend

import (
	"context"
	"log"
	"math"
	"sort"

	"github.com/cinerec/cinerec/internal/domain"
)

// neighborCount is how many behaviorally similar viewers contribute to the
// collaborative signal.
const neighborCount = 5

// Collaborative propagates neighbor ratings to unseen movies. It builds a
// dense viewer-by-movie matrix from every rating in the system, finds the
// viewers whose rating vectors are most cosine-similar to the target's, and
// scores each unseen movie by the mean of rating×similarity contributions,
// normalized back to [0,1].
//
// Missing matrix entries are filled with 0, which conflates "never rated"
// with the minimum rating. That approximation is part of the component's
// contract and is kept as-is.
type Collaborative struct {
	catalog MovieCatalog
	ratings RatingSource
	logger  *log.Logger
}

// CollabResult is the modeled outcome of a collaborative run. When Computed
// is false the component had insufficient data (or an internal failure) and
// contributes nothing; that is never an error.
type CollabResult struct {
	Computed bool
	Movies   []Scored
}

// Recommend never fails past its own boundary: any problem while reading
// ratings, building the matrix, or resolving movies degrades to an empty,
// non-computed result.
func (r *Collaborative) Recommend(ctx context.Context, viewerID string, exclude []string, count int, age *int) CollabResult {
	all, err := r.ratings.All(ctx)
	if err != nil {
		r.logger.Printf("collaborative: reading ratings: %v", err)
		return CollabResult{}
	}
	if len(all) == 0 {
		return CollabResult{}
	}

	viewerIdx := make(map[string]int)
	movieIdx := make(map[string]int)
	var viewerIDs []string
	for _, ev := range all {
		if _, ok := viewerIdx[ev.ViewerID]; !ok {
			viewerIdx[ev.ViewerID] = len(viewerIDs)
			viewerIDs = append(viewerIDs, ev.ViewerID)
		}
		if _, ok := movieIdx[ev.MovieID]; !ok {
			movieIdx[ev.MovieID] = len(movieIdx)
		}
	}
	target, ok := viewerIdx[viewerID]
	if !ok {
		return CollabResult{}
	}

	matrix := make([][]float64, len(viewerIDs))
	for i := range matrix {
		matrix[i] = make([]float64, len(movieIdx))
	}
	for _, ev := range all {
		matrix[viewerIdx[ev.ViewerID]][movieIdx[ev.MovieID]] = ev.Score
	}

	sims := cosineRow(matrix, target)

	type neighbor struct {
		idx int
		sim float64
	}
	ranked := make([]neighbor, 0, len(sims))
	for i, s := range sims {
		if i == target {
			continue
		}
		ranked = append(ranked, neighbor{idx: i, sim: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].sim > ranked[j].sim })
	if len(ranked) > neighborCount {
		ranked = ranked[:neighborCount]
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}

	byViewer := make(map[string][]domain.RatingEvent, len(viewerIDs))
	for _, ev := range all {
		byViewer[ev.ViewerID] = append(byViewer[ev.ViewerID], ev)
	}

	accumulated := make(map[string][]float64)
	resolved := make(map[string]*domain.Movie)
	var order []string

	for _, n := range ranked {
		if n.sim <= 0 {
			continue
		}
		for _, ev := range byViewer[viewerIDs[n.idx]] {
			if _, skip := excluded[ev.MovieID]; skip {
				continue
			}
			m, attempted := resolved[ev.MovieID]
			if !attempted {
				movie, ok, err := r.catalog.Lookup(ctx, ev.MovieID)
				if err != nil {
					r.logger.Printf("collaborative: resolving movie %s: %v", ev.MovieID, err)
					return CollabResult{}
				}
				if ok {
					m = &movie
				}
				resolved[ev.MovieID] = m
			}
			if m != nil && !Appropriate(*m, age) {
				continue
			}
			if _, seen := accumulated[ev.MovieID]; !seen {
				order = append(order, ev.MovieID)
			}
			accumulated[ev.MovieID] = append(accumulated[ev.MovieID], ev.Score*n.sim)
		}
	}

	scores := make(map[string]float64, len(accumulated))
	for id, vals := range accumulated {
		var sum float64
		for _, v := range vals {
			sum += v
		}
		scores[id] = sum / float64(len(vals)) / 5.0
	}

	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })

	results := make([]Scored, 0, count)
	for _, id := range order {
		if len(results) >= count {
			break
		}
		m := resolved[id]
		if m == nil {
			continue
		}
		if !Appropriate(*m, age) {
			continue
		}
		results = append(results, Scored{Movie: *m, Score: scores[id]})
	}
	return CollabResult{Computed: true, Movies: results}
}

// cosineRow computes the cosine similarity of one matrix row against every
// row, precomputing inverse norms so each pair costs a single dot product.
func cosineRow(matrix [][]float64, row int) []float64 {
	n := len(matrix)
	invNorms := make([]float64, n)
	for i, v := range matrix {
		var sum float64
		for _, x := range v {
			sum += x * x
		}
		if sum > 0 {
			invNorms[i] = 1 / math.Sqrt(sum)
		}
	}

	sims := make([]float64, n)
	if invNorms[row] == 0 {
		return sims
	}
	a := matrix[row]
	for i, b := range matrix {
		if invNorms[i] == 0 {
			continue
		}
		var dot float64
		for j := range a {
			dot += a[j] * b[j]
		}
		sims[i] = dot * invNorms[row] * invNorms[i]
	}
	return sims
}
