package model

import "time"

// Difficulty labels how hard it would be to break into a market.
type Difficulty string

// Difficulty levels.
const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// TierSummary aggregates observations for one distance tier.
// AvgPosition is nil when no observation in the tier appeared.
type TierSummary struct {
	Tier           int      `json:"tier" yaml:"tier"`
	Label          string   `json:"label" yaml:"label"`
	InnerKM        float64  `json:"inner_km" yaml:"inner_km"`
	OuterKM        float64  `json:"outer_km" yaml:"outer_km"`
	CityCount      int      `json:"city_count" yaml:"city_count"`
	ObservationCnt int      `json:"observation_count" yaml:"observation_count"`
	AppearingCnt   int      `json:"appearing_count" yaml:"appearing_count"`
	CoveragePct    float64  `json:"coverage_pct" yaml:"coverage_pct"` // 0.0-1.0
	AvgPosition    *float64 `json:"avg_position,omitempty" yaml:"avg_position,omitempty"`
}

// DominanceProfile is the radius estimate derived from tier summaries.
type DominanceProfile struct {
	RadiusKM           float64  `json:"radius_km" yaml:"radius_km"`
	DominantTier       int      `json:"dominant_tier" yaml:"dominant_tier"` // 0 = none
	AvgPositionOverall *float64 `json:"avg_position_overall,omitempty" yaml:"avg_position_overall,omitempty"`
}

// Dominant reports whether any tier met the coverage threshold.
func (p DominanceProfile) Dominant() bool {
	return p.DominantTier > 0
}

// Opportunity is one scored expansion target.
type Opportunity struct {
	CityName             string     `json:"city_name" yaml:"city_name"`
	DistanceKM           float64    `json:"distance_km" yaml:"distance_km"`
	Tier                 int        `json:"tier" yaml:"tier"`
	CompetitorCount      int        `json:"competitor_count" yaml:"competitor_count"`
	AvgCompetitorRating  *float64   `json:"avg_competitor_rating,omitempty" yaml:"avg_competitor_rating,omitempty"`
	AvgCompetitorReviews *float64   `json:"avg_competitor_reviews,omitempty" yaml:"avg_competitor_reviews,omitempty"`
	Score                float64    `json:"score" yaml:"score"`
	Difficulty           Difficulty `json:"difficulty" yaml:"difficulty"`
}

// AnalysisReport is the aggregate output of one analysis run.
type AnalysisReport struct {
	RunID         string              `json:"run_id" yaml:"run_id"`
	BusinessName  string              `json:"business_name" yaml:"business_name"`
	BaseName      string              `json:"base_name" yaml:"base_name"`
	GeneratedAt   time.Time           `json:"generated_at" yaml:"generated_at"`
	CityCount     int                 `json:"city_count" yaml:"city_count"`
	KeywordCount  int                 `json:"keyword_count" yaml:"keyword_count"`
	Profile       DominanceProfile    `json:"profile" yaml:"profile"`
	Tiers         []TierSummary       `json:"tiers" yaml:"tiers"`
	Opportunities []Opportunity       `json:"opportunities" yaml:"opportunities"`
	Observations  []SearchObservation `json:"observations" yaml:"observations"`
	SkippedCount  int                 `json:"skipped_count" yaml:"skipped_count"`
	Degraded      bool                `json:"degraded" yaml:"degraded"`
}
