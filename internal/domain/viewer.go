package domain

import "time"

// Viewer is a person whose ratings and preferences drive recommendations.
// A nil Age means no age restriction applies anywhere.
type Viewer struct {
	ID        string
	Username  string
	Age       *int
	CreatedAt time.Time
}
