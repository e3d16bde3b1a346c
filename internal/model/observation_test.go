package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObservationRowRoundTrip(t *testing.T) {
	pos := 4
	rating := 4.2
	reviews := 87.5

	tests := []struct {
		name string
		obs  SearchObservation
	}{
		{
			name: "appearing with competitor stats",
			obs: SearchObservation{
				CityName:             "Gardena",
				Keyword:              "house cleaning",
				Tier:                 2,
				DistanceKM:           6.3,
				Appears:              true,
				Position:             &pos,
				CompetitorCount:      9,
				AvgCompetitorRating:  &rating,
				AvgCompetitorReviews: &reviews,
				ObservedAt:           time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "absent with nil optionals",
			obs: SearchObservation{
				CityName:        "Torrance",
				Keyword:         "maid service",
				Tier:            3,
				DistanceKM:      12.8,
				CompetitorCount: 15,
				ObservedAt:      time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.obs, tt.obs.Row().Observation())
		})
	}
}
