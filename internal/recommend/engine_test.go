package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinerec/cinerec/internal/domain"
)

func newEngine(catalog *fakeCatalog, viewers *fakeViewers, ratings *fakeRatings, prefs *fakePrefs) *Engine {
	if viewers == nil {
		viewers = &fakeViewers{}
	}
	if ratings == nil {
		ratings = &fakeRatings{}
	}
	if prefs == nil {
		prefs = &fakePrefs{}
	}
	return New(viewers, catalog, ratings, prefs, nil)
}

func TestEngineColdStartScoresHalf(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	viewers := &fakeViewers{viewers: map[string]domain.Viewer{
		"fresh": {ID: "fresh", Username: "fresh"},
	}}
	e := newEngine(catalog, viewers, nil, nil)

	recs, err := e.Recommend(context.Background(), "fresh", 5)
	require.NoError(t, err)
	require.Len(t, recs, 5)
	for _, rec := range recs {
		assert.Equal(t, 0.5, rec.Score, "movie %s", rec.Movie.Title)
	}
}

func TestEngineBlendsSimilarityAndPreference(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	viewers := &fakeViewers{viewers: map[string]domain.Viewer{
		"v1": {ID: "v1", Username: "v1"},
	}}
	ratings := &fakeRatings{events: []domain.RatingEvent{mkRating("v1", "m-matrix", 5)}}
	e := newEngine(catalog, viewers, ratings, nil)

	recs, err := e.Recommend(context.Background(), "v1", 5)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	// Inception is seeded with its similarity score against The Matrix and
	// boosted by the preference fallback.
	assert.Equal(t, "m-inception", recs[0].Movie.ID)
	assert.InDelta(t, (0.4*2.0/3.0+0.05)+0.2, recs[0].Score, 1e-9)

	for _, rec := range recs {
		assert.NotEqual(t, "m-matrix", rec.Movie.ID, "rated movie must never come back")
	}
}

func TestEngineCapsScoreAtOne(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	viewers := &fakeViewers{viewers: map[string]domain.Viewer{
		"v1": {ID: "v1", Username: "v1", Age: intPtr(25)},
	}}
	// Over ten system-wide ratings so the collaborative signal joins in.
	ratings := &fakeRatings{events: []domain.RatingEvent{
		mkRating("v1", "m-matrix", 5),
		mkRating("v2", "m-matrix", 5),
		mkRating("v2", "m-inception", 5),
		mkRating("v3", "m-goodfellas", 4),
		mkRating("v3", "m-shawshank", 4),
		mkRating("v3", "m-frozen", 3),
		mkRating("v4", "m-toystory", 5),
		mkRating("v4", "m-moana", 4),
		mkRating("v4", "m-starwars", 5),
		mkRating("v5", "m-darkknight", 4),
		mkRating("v5", "m-hungergames", 3),
		mkRating("v5", "m-frozen", 5),
	}}
	e := newEngine(catalog, viewers, ratings, nil)

	recs, err := e.Recommend(context.Background(), "v1", 5)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	// Inception gathers the age seed plus similarity, collaborative, and
	// preference boosts, which would exceed the scale without the cap.
	assert.Equal(t, "m-inception", recs[0].Movie.ID)
	assert.Equal(t, 1.0, recs[0].Score)
	for _, rec := range recs {
		assert.GreaterOrEqual(t, rec.Score, 0.0)
		assert.LessOrEqual(t, rec.Score, 1.0)
	}
}

func TestEngineKidNeverSeesAdultTiers(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	viewers := &fakeViewers{viewers: map[string]domain.Viewer{
		"kid": {ID: "kid", Username: "kid", Age: intPtr(8)},
	}}
	e := newEngine(catalog, viewers, nil, nil)

	recs, err := e.Recommend(context.Background(), "kid", 10)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	for _, rec := range recs {
		require.NotNil(t, rec.Movie.AgeRating, "unrated movie reached a young viewer")
		assert.Contains(t, []string{"G", "PG"}, *rec.Movie.AgeRating)
	}
	// The catalog holds only four kid-safe titles; short lists are fine.
	assert.Len(t, recs, 4)
}

func TestEngineYoungChildSeesOnlyGeneralAudiences(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	viewers := &fakeViewers{viewers: map[string]domain.Viewer{
		"tot": {ID: "tot", Username: "tot", Age: intPtr(6)},
	}}
	e := newEngine(catalog, viewers, nil, nil)

	recs, err := e.Recommend(context.Background(), "tot", 10)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	for _, rec := range recs {
		require.NotNil(t, rec.Movie.AgeRating)
		assert.Equal(t, "G", *rec.Movie.AgeRating, "movie %s", rec.Movie.Title)
	}
}

func TestEngineBackfillsWithFallbackScore(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	viewers := &fakeViewers{viewers: map[string]domain.Viewer{
		"v1": {ID: "v1", Username: "v1"},
	}}
	prefs := &fakePrefs{prefs: map[string][]domain.GenrePreference{
		"v1": {{ViewerID: "v1", Genre: "Animation", Weight: 1}},
	}}
	e := newEngine(catalog, viewers, nil, prefs)

	recs, err := e.Recommend(context.Background(), "v1", 5)
	require.NoError(t, err)
	require.Len(t, recs, 5)

	// Three Animation titles score from the preference pass; the remaining
	// two slots are backfilled at low confidence.
	for _, rec := range recs[:3] {
		assert.Equal(t, 0.5, rec.Score)
		assert.Contains(t, rec.Movie.Genre, "Animation")
	}
	for _, rec := range recs[3:] {
		assert.Equal(t, 0.3, rec.Score)
	}
}

func TestEngineUnknownViewerRunsAnonymously(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	e := newEngine(catalog, nil, nil, nil)

	recs, err := e.Recommend(context.Background(), "nobody", 5)
	require.NoError(t, err)
	assert.Len(t, recs, 5)
}

func TestEngineNoDuplicateMovies(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	viewers := &fakeViewers{viewers: map[string]domain.Viewer{
		"v1": {ID: "v1", Username: "v1", Age: intPtr(30)},
	}}
	ratings := &fakeRatings{events: []domain.RatingEvent{
		mkRating("v1", "m-matrix", 5),
		mkRating("v1", "m-goodfellas", 4),
	}}
	prefs := &fakePrefs{prefs: map[string][]domain.GenrePreference{
		"v1": {{ViewerID: "v1", Genre: "Action", Weight: 1}},
	}}
	e := newEngine(catalog, viewers, ratings, prefs)

	recs, err := e.Recommend(context.Background(), "v1", 10)
	require.NoError(t, err)
	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		_, dup := seen[rec.Movie.ID]
		require.False(t, dup, "duplicate recommendation %s", rec.Movie.Title)
		seen[rec.Movie.ID] = struct{}{}
	}
}

func TestEngineDefaultCount(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	e := newEngine(catalog, nil, nil, nil)

	recs, err := e.Recommend(context.Background(), "nobody", 0)
	require.NoError(t, err)
	assert.Len(t, recs, 10)
}
