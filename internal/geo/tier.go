package geo

import "github.com/rotisserie/eris"

// Default tier boundaries in kilometers: tier N covers
// [boundaries[N-1], boundaries[N]). Cities at or past the last boundary fall
// outside the analysis radius.
var DefaultBoundaries = []float64{0, 5, 10, 15, 25}

// Tier labels indexed by tier number (1-based).
var tierLabels = []string{"", "immediate", "nearby", "medium", "distant"}

// Classifier buckets distances into contiguous half-open tiers.
type Classifier struct {
	boundaries []float64
}

// NewClassifier builds a Classifier from ascending boundary values. The first
// value is the inner edge of tier 1 (normally 0); each subsequent value
// closes one tier.
func NewClassifier(boundaries []float64) (*Classifier, error) {
	if len(boundaries) < 2 {
		return nil, eris.New("geo: classifier needs at least two boundaries")
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			return nil, eris.Errorf("geo: boundaries must be ascending, got %v", boundaries)
		}
	}
	return &Classifier{boundaries: boundaries}, nil
}

// Classify returns the 1-based tier for a distance, or (0, false) when the
// distance falls at or beyond the outermost boundary. Each tier is half-open:
// a city sitting exactly on a boundary belongs to the outer tier.
func (c *Classifier) Classify(distanceKM float64) (int, bool) {
	if distanceKM < c.boundaries[0] {
		return 0, false
	}
	for i := 1; i < len(c.boundaries); i++ {
		if distanceKM < c.boundaries[i] {
			return i, true
		}
	}
	return 0, false
}

// Tiers returns the number of tiers.
func (c *Classifier) Tiers() int {
	return len(c.boundaries) - 1
}

// Bounds returns the [inner, outer) interval of a 1-based tier.
func (c *Classifier) Bounds(tier int) (inner, outer float64) {
	return c.boundaries[tier-1], c.boundaries[tier]
}

// Label returns a short human name for a tier ("immediate", "nearby", ...).
// Tiers beyond the named set fall back to "outer".
func (c *Classifier) Label(tier int) string {
	if tier >= 1 && tier < len(tierLabels) {
		return tierLabels[tier]
	}
	return "outer"
}
