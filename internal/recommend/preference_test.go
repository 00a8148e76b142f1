package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinerec/cinerec/internal/domain"
)

func newPreferenceBased(catalog MovieCatalog, prefs PreferenceSource) *PreferenceBased {
	return &PreferenceBased{catalog: catalog, prefs: prefs, ageBased: &AgeBased{catalog: catalog}}
}

func TestPreferenceBasedOrdersByPreference(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	prefs := &fakePrefs{prefs: map[string][]domain.GenrePreference{
		"v1": {
			{ViewerID: "v1", Genre: "Animation", Weight: 1},
			{ViewerID: "v1", Genre: "Crime", Weight: 1},
		},
	}}
	r := newPreferenceBased(catalog, prefs)

	movies, err := r.Recommend(context.Background(), "v1", 10, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, movies)

	// All Animation titles come before any Crime title.
	assert.Equal(t, "Toy Story", movies[0].Title)
	assert.Equal(t, "Frozen", movies[1].Title)
	assert.Equal(t, "Moana", movies[2].Title)
	assert.Equal(t, "The Dark Knight", movies[3].Title)
}

func TestPreferenceBasedDeduplicatesAcrossGenres(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	prefs := &fakePrefs{prefs: map[string][]domain.GenrePreference{
		"v1": {
			{ViewerID: "v1", Genre: "Adventure", Weight: 1},
			{ViewerID: "v1", Genre: "Animation", Weight: 1},
		},
	}}
	r := newPreferenceBased(catalog, prefs)

	movies, err := r.Recommend(context.Background(), "v1", 20, nil, nil)
	require.NoError(t, err)
	seen := make(map[string]struct{}, len(movies))
	for _, m := range movies {
		_, dup := seen[m.ID]
		require.False(t, dup, "duplicate movie %s", m.Title)
		seen[m.ID] = struct{}{}
	}
}

func TestPreferenceBasedAppliesTierCeiling(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	prefs := &fakePrefs{prefs: map[string][]domain.GenrePreference{
		"v1": {{ViewerID: "v1", Genre: "Action", Weight: 1}},
	}}
	r := newPreferenceBased(catalog, prefs)

	movies, err := r.Recommend(context.Background(), "v1", 10, intPtr(10), nil)
	require.NoError(t, err)
	for _, m := range movies {
		require.NotNil(t, m.AgeRating)
		assert.Contains(t, []string{"G", "PG"}, *m.AgeRating)
	}
}

func TestPreferenceBasedFallsBackToAgeBased(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	r := newPreferenceBased(catalog, &fakePrefs{})

	movies, err := r.Recommend(context.Background(), "v1", 3, intPtr(8), nil)
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, "Moana", movies[0].Title)
}

func TestPreferenceBasedFallsBackToNewest(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	r := newPreferenceBased(catalog, &fakePrefs{})

	movies, err := r.Recommend(context.Background(), "v1", 3, nil, nil)
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, "Moana", movies[0].Title)
	assert.Equal(t, "Frozen", movies[1].Title)
	assert.Equal(t, "The Hunger Games", movies[2].Title)
}

func TestPreferenceBasedTruncatesToCount(t *testing.T) {
	catalog := &fakeCatalog{movies: sampleCatalog()}
	prefs := &fakePrefs{prefs: map[string][]domain.GenrePreference{
		"v1": {{ViewerID: "v1", Genre: "Action", Weight: 1}},
	}}
	r := newPreferenceBased(catalog, prefs)

	movies, err := r.Recommend(context.Background(), "v1", 2, nil, nil)
	require.NoError(t, err)
	assert.Len(t, movies, 2)
}
