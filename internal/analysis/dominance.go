package analysis

import "github.com/rankradius/rankradius/internal/model"

// DefaultDominanceThreshold is the minimum tier coverage for a tier to count
// as dominated: the business must show in-window for at least half of the
// sampled (city, keyword) pairs.
const DefaultDominanceThreshold = 0.5

// ComputeDominance derives the dominance radius from tier summaries. Tiers
// are scanned in ascending distance order; the radius is the outer boundary
// of the last tier in the contiguous run whose coverage meets the threshold.
// A gap in the tier sequence ends the run: dominance cannot be demonstrated
// through an unsampled ring. If the first tier fails, the radius is 0.
//
// The overall average position is weighted by appearing-observation count
// across the dominated tiers, so tiers with few cities do not skew the mean.
func ComputeDominance(summaries []model.TierSummary, threshold float64) model.DominanceProfile {
	if threshold <= 0 {
		threshold = DefaultDominanceThreshold
	}

	profile := model.DominanceProfile{}
	expected := 1

	var positionSum float64
	var appearing int

	for _, s := range summaries {
		if s.Tier != expected {
			break
		}
		if s.ObservationCnt == 0 || s.CoveragePct < threshold {
			break
		}

		profile.RadiusKM = s.OuterKM
		profile.DominantTier = s.Tier
		if s.AvgPosition != nil {
			positionSum += *s.AvgPosition * float64(s.AppearingCnt)
			appearing += s.AppearingCnt
		}
		expected++
	}

	if appearing > 0 {
		avg := positionSum / float64(appearing)
		profile.AvgPositionOverall = &avg
	}

	return profile
}
