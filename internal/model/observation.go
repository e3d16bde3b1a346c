package model

import "time"

// SearchObservation is one (city, keyword) measurement extracted from a
// provider response. Optional fields are pointers; a nil rating means the
// field was absent from every competitor entry, not that it was zero.
// Position is set only when Appears is true.
type SearchObservation struct {
	CityName             string    `json:"city_name"`
	Keyword              string    `json:"keyword"`
	Tier                 int       `json:"tier"`
	DistanceKM           float64   `json:"distance_km"`
	Appears              bool      `json:"appears"`
	Position             *int      `json:"position,omitempty"`
	CompetitorCount      int       `json:"competitor_count"`
	AvgCompetitorRating  *float64  `json:"avg_competitor_rating,omitempty"`
	AvgCompetitorReviews *float64  `json:"avg_competitor_reviews,omitempty"`
	ObservedAt           time.Time `json:"observed_at"`
}

// ObservationRow is the flat persistence shape for a SearchObservation, one
// row per city, keyword, and date. Converting to a row and back preserves
// appears, position, and competitor fields exactly.
type ObservationRow struct {
	ObservedAt           time.Time
	CityName             string
	Keyword              string
	Tier                 int
	Appears              bool
	Position             *int
	DistanceKM           float64
	CompetitorCount      int
	AvgCompetitorRating  *float64
	AvgCompetitorReviews *float64
}

// Row converts the observation to its persistence shape.
func (o SearchObservation) Row() ObservationRow {
	return ObservationRow{
		ObservedAt:           o.ObservedAt,
		CityName:             o.CityName,
		Keyword:              o.Keyword,
		Tier:                 o.Tier,
		Appears:              o.Appears,
		Position:             o.Position,
		DistanceKM:           o.DistanceKM,
		CompetitorCount:      o.CompetitorCount,
		AvgCompetitorRating:  o.AvgCompetitorRating,
		AvgCompetitorReviews: o.AvgCompetitorReviews,
	}
}

// Observation reconstructs the domain observation from a persisted row.
func (r ObservationRow) Observation() SearchObservation {
	return SearchObservation{
		CityName:             r.CityName,
		Keyword:              r.Keyword,
		Tier:                 r.Tier,
		DistanceKM:           r.DistanceKM,
		Appears:              r.Appears,
		Position:             r.Position,
		CompetitorCount:      r.CompetitorCount,
		AvgCompetitorRating:  r.AvgCompetitorRating,
		AvgCompetitorReviews: r.AvgCompetitorReviews,
		ObservedAt:           r.ObservedAt,
	}
}
