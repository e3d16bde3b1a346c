// Package analysis folds per-query observations into tier summaries, a
// dominance-radius profile, and a ranked expansion opportunity list.
package analysis

import (
	"github.com/rankradius/rankradius/internal/geo"
	"github.com/rankradius/rankradius/internal/model"
)

// Aggregate groups observations into per-tier summaries, ordered by ascending
// tier. Tiers with no cities are omitted. The result is identical regardless
// of observation order. A tier with cities but no observations is reported
// with a zero observation count so downstream stages can tell "not sampled"
// apart from "sampled and absent".
func Aggregate(classifier *geo.Classifier, cities []model.City, observations []model.SearchObservation) []model.TierSummary {
	cityCounts := make(map[int]int)
	for _, c := range cities {
		if c.Tier > 0 {
			cityCounts[c.Tier]++
		}
	}

	type acc struct {
		total       int
		appearing   int
		positionSum int
	}
	accs := make(map[int]*acc)
	for _, obs := range observations {
		if obs.Tier <= 0 {
			continue
		}
		a := accs[obs.Tier]
		if a == nil {
			a = &acc{}
			accs[obs.Tier] = a
		}
		a.total++
		if obs.Appears && obs.Position != nil {
			a.appearing++
			a.positionSum += *obs.Position
		}
	}

	var summaries []model.TierSummary
	for tier := 1; tier <= classifier.Tiers(); tier++ {
		if cityCounts[tier] == 0 {
			continue
		}

		inner, outer := classifier.Bounds(tier)
		s := model.TierSummary{
			Tier:      tier,
			Label:     classifier.Label(tier),
			InnerKM:   inner,
			OuterKM:   outer,
			CityCount: cityCounts[tier],
		}

		if a := accs[tier]; a != nil {
			s.ObservationCnt = a.total
			s.AppearingCnt = a.appearing
			s.CoveragePct = float64(a.appearing) / float64(a.total)
			if a.appearing > 0 {
				avg := float64(a.positionSum) / float64(a.appearing)
				s.AvgPosition = &avg
			}
		}

		summaries = append(summaries, s)
	}

	return summaries
}
