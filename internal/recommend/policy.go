package recommend

import "github.com/cinerec/cinerec/internal/domain"

// Appropriate reports whether a movie may be shown to a viewer of the given
// age. It is the single final gate every candidate passes before being
// returned. A nil age means no restriction. An absent rating tier is
// rejected for viewers under 13 (conservative default) and allowed
// otherwise.
func Appropriate(m domain.Movie, age *int) bool {
	if age == nil {
		return true
	}
	a := *age
	if m.AgeRating == nil {
		return a >= 13
	}
	tier := *m.AgeRating
	switch {
	case a <= 7:
		return tier == "G"
	case a <= 12:
		return tier == "G" || tier == "PG"
	case a < 18:
		return tier == "G" || tier == "PG" || tier == "PG-13"
	default:
		return true
	}
}

// TierCeiling returns the rating tiers admissible at query time for the
// given age, or nil when no restriction applies. Query filters built from
// this set additionally admit movies with no rating tier, which the final
// Appropriate gate may still reject for young viewers; both behaviors are
// intentional.
func TierCeiling(age *int) []string {
	if age == nil {
		return nil
	}
	switch a := *age; {
	case a <= 7:
		return []string{"G"}
	case a <= 12:
		return []string{"G", "PG"}
	case a < 18:
		return []string{"G", "PG", "PG-13"}
	default:
		return nil
	}
}
