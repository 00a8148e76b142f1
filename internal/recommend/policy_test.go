package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppropriate(t *testing.T) {
	tests := []struct {
		name   string
		rating string
		age    *int
		want   bool
	}{
		{name: "no age restriction", rating: "R", age: nil, want: true},
		{name: "young child G", rating: "G", age: intPtr(6), want: true},
		{name: "young child PG", rating: "PG", age: intPtr(6), want: false},
		{name: "older child PG", rating: "PG", age: intPtr(10), want: true},
		{name: "older child PG-13", rating: "PG-13", age: intPtr(10), want: false},
		{name: "teen PG-13", rating: "PG-13", age: intPtr(15), want: true},
		{name: "teen R", rating: "R", age: intPtr(15), want: false},
		{name: "adult R", rating: "R", age: intPtr(25), want: true},
		{name: "adult NC-17", rating: "NC-17", age: intPtr(40), want: true},
		{name: "boundary twelve PG", rating: "PG", age: intPtr(12), want: true},
		{name: "boundary thirteen PG-13", rating: "PG-13", age: intPtr(13), want: true},
		{name: "boundary seventeen R", rating: "R", age: intPtr(17), want: false},
		{name: "boundary eighteen R", rating: "R", age: intPtr(18), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mkMovie("m1", "Movie", "Drama", 2000, "", "", tt.rating)
			assert.Equal(t, tt.want, Appropriate(m, tt.age))
		})
	}
}

func TestAppropriateUnratedMovie(t *testing.T) {
	unrated := mkMovie("m1", "Untagged", "Drama", 2000, "", "", "")

	assert.True(t, Appropriate(unrated, nil))
	assert.False(t, Appropriate(unrated, intPtr(8)))
	assert.False(t, Appropriate(unrated, intPtr(12)))
	assert.True(t, Appropriate(unrated, intPtr(13)))
	assert.True(t, Appropriate(unrated, intPtr(30)))
}

func TestTierCeiling(t *testing.T) {
	assert.Nil(t, TierCeiling(nil))
	assert.Equal(t, []string{"G"}, TierCeiling(intPtr(7)))
	assert.Equal(t, []string{"G", "PG"}, TierCeiling(intPtr(12)))
	assert.Equal(t, []string{"G", "PG", "PG-13"}, TierCeiling(intPtr(17)))
	assert.Nil(t, TierCeiling(intPtr(18)))
}
