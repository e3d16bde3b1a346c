package analysis

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rankradius/rankradius/internal/model"
)

// BuildParams carries the derived pieces assembled into a report.
type BuildParams struct {
	RunID         string
	BusinessName  string
	BaseName      string
	GeneratedAt   time.Time
	CityCount     int
	KeywordCount  int
	Profile       model.DominanceProfile
	Tiers         []model.TierSummary
	Opportunities []model.Opportunity
	Observations  []model.SearchObservation
	SkippedCount  int
	Degraded      bool
}

// BuildReport assembles the final report. Pure assembly: opportunities are
// ordered by descending score, ties broken by ascending distance, then city
// name, so identical inputs always produce identical output.
func BuildReport(p BuildParams) model.AnalysisReport {
	if p.RunID == "" {
		p.RunID = uuid.New().String()
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now().UTC()
	}

	opportunities := make([]model.Opportunity, len(p.Opportunities))
	copy(opportunities, p.Opportunities)
	sort.Slice(opportunities, func(i, j int) bool {
		if opportunities[i].Score != opportunities[j].Score {
			return opportunities[i].Score > opportunities[j].Score
		}
		if opportunities[i].DistanceKM != opportunities[j].DistanceKM {
			return opportunities[i].DistanceKM < opportunities[j].DistanceKM
		}
		return opportunities[i].CityName < opportunities[j].CityName
	})

	return model.AnalysisReport{
		RunID:         p.RunID,
		BusinessName:  p.BusinessName,
		BaseName:      p.BaseName,
		GeneratedAt:   p.GeneratedAt,
		CityCount:     p.CityCount,
		KeywordCount:  p.KeywordCount,
		Profile:       p.Profile,
		Tiers:         p.Tiers,
		Opportunities: opportunities,
		Observations:  p.Observations,
		SkippedCount:  p.SkippedCount,
		Degraded:      p.Degraded,
	}
}
