package domain

import "time"

// RatingEvent records a single viewer's score for a movie, on a 1-5 scale.
// At most one event exists per (viewer, movie); resubmission updates in place.
type RatingEvent struct {
	ViewerID  string
	MovieID   string
	Score     float64
	Review    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
