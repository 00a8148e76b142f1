package domain

import (
	"strings"
	"time"
)

// Movie represents the canonical movie entity in the database/service.
// Genre and Cast hold comma-joined label sets, matching their storage form.
type Movie struct {
	ID        string
	Title     string
	Genre     string
	Year      int
	Director  string
	Cast      string
	AgeRating *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Genres returns the genre labels as a trimmed slice.
func (m Movie) Genres() []string {
	return splitLabels(m.Genre)
}

// CastMembers returns the cast names as a trimmed slice.
func (m Movie) CastMembers() []string {
	return splitLabels(m.Cast)
}

func splitLabels(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	return labels
}
