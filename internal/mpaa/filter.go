// Package mpaa filters movie records by MPAA rating tier.
package mpaa

import (
	"math"
	"sort"
	"strings"
)

// tierOrder ranks the MPAA tiers from least to most restrictive.
var tierOrder = map[string]int{
	"G":     0,
	"PG":    1,
	"PG-13": 2,
	"R":     3,
	"NC-17": 4,
}

// Record is a movie-like entry carrying an optional rating tier and an
// optional popularity value. Missing fields coerce to "excluded" and 0
// respectively.
type Record struct {
	Title      string
	AgeRating  *string
	Popularity *float64
}

// MoviesByRating returns the records whose rating tier is at or below the
// required tier in restrictiveness (G < PG < PG-13 < R < NC-17), sorted by
// popularity descending. Records without a recognizable tier are excluded;
// an unrecognized required tier yields an empty result.
func MoviesByRating(required string, records []Record) []Record {
	req, ok := tierOrder[normalizeTier(required)]
	if !ok {
		return []Record{}
	}

	filtered := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.AgeRating == nil {
			continue
		}
		level, ok := tierOrder[normalizeTier(*rec.AgeRating)]
		if !ok || level > req {
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return popularity(filtered[i]) > popularity(filtered[j])
	})
	return filtered
}

func normalizeTier(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, "PG13", "PG-13")
	v = strings.ReplaceAll(v, "NC17", "NC-17")
	return v
}

func popularity(rec Record) float64 {
	if rec.Popularity == nil || math.IsNaN(*rec.Popularity) {
		return 0
	}
	return *rec.Popularity
}
