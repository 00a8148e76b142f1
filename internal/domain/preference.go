package domain

// GenrePreference is an explicit genre weighting set by a viewer.
// A viewer's preference set is replaced wholesale, never merged.
type GenrePreference struct {
	ViewerID string
	Genre    string
	Weight   float64
}
