package analysis

import (
	"math"

	"github.com/rankradius/rankradius/internal/model"
)

// ScoringConfig holds the externally injected weights and difficulty
// thresholds for opportunity scoring.
type ScoringConfig struct {
	DistanceWeight    float64 `yaml:"distance_weight" mapstructure:"distance_weight"`
	CompetitionWeight float64 `yaml:"competition_weight" mapstructure:"competition_weight"`
	RatingWeight      float64 `yaml:"rating_weight" mapstructure:"rating_weight"`

	// Distance (km) and competitor count at which the respective score
	// component halves.
	DistanceHalfKM      float64 `yaml:"distance_half_km" mapstructure:"distance_half_km"`
	CompetitorHalfCount float64 `yaml:"competitor_half_count" mapstructure:"competitor_half_count"`

	EasyMaxCompetitors int     `yaml:"easy_max_competitors" mapstructure:"easy_max_competitors"`
	EasyMaxRating      float64 `yaml:"easy_max_rating" mapstructure:"easy_max_rating"`
	HardMinCompetitors int     `yaml:"hard_min_competitors" mapstructure:"hard_min_competitors"`
	HardMinRating      float64 `yaml:"hard_min_rating" mapstructure:"hard_min_rating"`
}

// DefaultScoringConfig returns scoring defaults. Weights sum to 100.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		DistanceWeight:      40,
		CompetitionWeight:   35,
		RatingWeight:        25,
		DistanceHalfKM:      10,
		CompetitorHalfCount: 8,
		EasyMaxCompetitors:  5,
		EasyMaxRating:       4.0,
		HardMinCompetitors:  12,
		HardMinRating:       4.5,
	}
}

// Scorer ranks cities outside the dominance radius by expansion
// attractiveness.
type Scorer struct {
	cfg            ScoringConfig
	primaryKeyword string
}

// NewScorer creates a Scorer. The primary keyword decides coverage-based
// eligibility for cities inside the dominance radius.
func NewScorer(cfg ScoringConfig, primaryKeyword string) *Scorer {
	return &Scorer{cfg: cfg, primaryKeyword: primaryKeyword}
}

// Score evaluates one city against the dominance profile. It returns nil when
// the city is not an expansion target: at zero distance (the base itself), or
// inside the dominance radius with the primary keyword already ranking.
func (s *Scorer) Score(city model.City, observations []model.SearchObservation, profile model.DominanceProfile) *model.Opportunity {
	if city.DistanceKM <= 0 {
		return nil
	}
	if city.DistanceKM <= profile.RadiusKM && s.primaryAppears(observations) {
		return nil
	}

	competitors, rating, reviews := competitorStats(observations)

	opp := &model.Opportunity{
		CityName:             city.Name,
		DistanceKM:           city.DistanceKM,
		Tier:                 city.Tier,
		CompetitorCount:      competitors,
		AvgCompetitorRating:  rating,
		AvgCompetitorReviews: reviews,
		Score:                s.score(city.DistanceKM, competitors, rating),
		Difficulty:           s.difficulty(competitors, rating),
	}
	return opp
}

func (s *Scorer) primaryAppears(observations []model.SearchObservation) bool {
	for _, obs := range observations {
		if obs.Keyword == s.primaryKeyword && obs.Appears {
			return true
		}
	}
	return false
}

// score is strictly decreasing in distance, competitor count, and competitor
// rating, normalized to 0-100 by the weight sum.
func (s *Scorer) score(distanceKM float64, competitors int, rating *float64) float64 {
	proximity := s.cfg.DistanceHalfKM / (s.cfg.DistanceHalfKM + distanceKM)
	competition := s.cfg.CompetitorHalfCount / (s.cfg.CompetitorHalfCount + float64(competitors))

	// Neutral when no competitor carried a rating.
	weakness := 0.5
	if rating != nil {
		weakness = (5 - math.Min(*rating, 5)) / 5
	}

	weightSum := s.cfg.DistanceWeight + s.cfg.CompetitionWeight + s.cfg.RatingWeight
	if weightSum <= 0 {
		return 0
	}

	raw := s.cfg.DistanceWeight*proximity + s.cfg.CompetitionWeight*competition + s.cfg.RatingWeight*weakness
	return raw / weightSum * 100
}

func (s *Scorer) difficulty(competitors int, rating *float64) model.Difficulty {
	r := 0.0
	if rating != nil {
		r = *rating
	}

	switch {
	case competitors <= s.cfg.EasyMaxCompetitors && r < s.cfg.EasyMaxRating:
		return model.DifficultyEasy
	case competitors >= s.cfg.HardMinCompetitors && r >= s.cfg.HardMinRating:
		return model.DifficultyHard
	default:
		return model.DifficultyMedium
	}
}

// competitorStats averages competitor metrics across a city's observations.
// Means only cover observations where the metric was present.
func competitorStats(observations []model.SearchObservation) (count int, rating, reviews *float64) {
	if len(observations) == 0 {
		return 0, nil, nil
	}

	var countSum int
	var ratingSum, reviewSum float64
	var ratingN, reviewN int

	for _, obs := range observations {
		countSum += obs.CompetitorCount
		if obs.AvgCompetitorRating != nil {
			ratingSum += *obs.AvgCompetitorRating
			ratingN++
		}
		if obs.AvgCompetitorReviews != nil {
			reviewSum += *obs.AvgCompetitorReviews
			reviewN++
		}
	}

	count = int(math.Round(float64(countSum) / float64(len(observations))))
	if ratingN > 0 {
		avg := ratingSum / float64(ratingN)
		rating = &avg
	}
	if reviewN > 0 {
		avg := reviewSum / float64(reviewN)
		reviews = &avg
	}
	return count, rating, reviews
}
