package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankradius/rankradius/internal/geo"
	"github.com/rankradius/rankradius/internal/model"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func testClassifier(t *testing.T) *geo.Classifier {
	t.Helper()
	c, err := geo.NewClassifier(geo.DefaultBoundaries)
	require.NoError(t, err)
	return c
}

func obsAt(tier int, city, keyword string, position *int) model.SearchObservation {
	return model.SearchObservation{
		CityName: city,
		Keyword:  keyword,
		Tier:     tier,
		Appears:  position != nil,
		Position: position,
	}
}

func TestAggregate_CoverageAndPosition(t *testing.T) {
	cities := []model.City{
		{Name: "Inglewood", Tier: 1},
		{Name: "Lennox", Tier: 1},
		{Name: "Hawthorne", Tier: 2},
	}
	observations := []model.SearchObservation{
		obsAt(1, "Inglewood", "house cleaning", intPtr(1)),
		obsAt(1, "Inglewood", "maid service", intPtr(3)),
		obsAt(1, "Lennox", "house cleaning", intPtr(2)),
		obsAt(1, "Lennox", "maid service", nil),
		obsAt(2, "Hawthorne", "house cleaning", nil),
		obsAt(2, "Hawthorne", "maid service", intPtr(8)),
	}

	summaries := Aggregate(testClassifier(t), cities, observations)
	require.Len(t, summaries, 2)

	t1 := summaries[0]
	assert.Equal(t, 1, t1.Tier)
	assert.Equal(t, "immediate", t1.Label)
	assert.Equal(t, 2, t1.CityCount)
	assert.Equal(t, 4, t1.ObservationCnt)
	assert.Equal(t, 3, t1.AppearingCnt)
	assert.InDelta(t, 0.75, t1.CoveragePct, 0.001)
	require.NotNil(t, t1.AvgPosition)
	assert.InDelta(t, 2.0, *t1.AvgPosition, 0.001) // (1+3+2)/3

	t2 := summaries[1]
	assert.Equal(t, 2, t2.Tier)
	assert.Equal(t, 1, t2.CityCount)
	assert.InDelta(t, 0.5, t2.CoveragePct, 0.001)
	require.NotNil(t, t2.AvgPosition)
	assert.InDelta(t, 8.0, *t2.AvgPosition, 0.001)
}

func TestAggregate_ZeroAppearingIsZeroNotNaN(t *testing.T) {
	cities := []model.City{{Name: "Torrance", Tier: 3}}
	observations := []model.SearchObservation{
		obsAt(3, "Torrance", "house cleaning", nil),
		obsAt(3, "Torrance", "maid service", nil),
		obsAt(3, "Torrance", "cleaning services", nil),
	}

	summaries := Aggregate(testClassifier(t), cities, observations)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, 0.0, s.CoveragePct)
	assert.False(t, s.CoveragePct != s.CoveragePct, "coverage must not be NaN")
	assert.Nil(t, s.AvgPosition, "avg position undefined when nothing appears")
}

func TestAggregate_EmptyTiersOmitted(t *testing.T) {
	cities := []model.City{
		{Name: "Inglewood", Tier: 1},
		{Name: "Long Beach", Tier: 4},
	}
	observations := []model.SearchObservation{
		obsAt(1, "Inglewood", "house cleaning", intPtr(1)),
		obsAt(4, "Long Beach", "house cleaning", nil),
	}

	summaries := Aggregate(testClassifier(t), cities, observations)
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].Tier)
	assert.Equal(t, 4, summaries[1].Tier)
}

func TestAggregate_NoObservationsForTier(t *testing.T) {
	cities := []model.City{{Name: "Inglewood", Tier: 1}}

	summaries := Aggregate(testClassifier(t), cities, nil)
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].ObservationCnt)
	assert.Equal(t, 0.0, summaries[0].CoveragePct)
	assert.Nil(t, summaries[0].AvgPosition)
}

func TestAggregate_OrderInsensitive(t *testing.T) {
	cities := []model.City{
		{Name: "Inglewood", Tier: 1},
		{Name: "Hawthorne", Tier: 2},
		{Name: "Torrance", Tier: 3},
	}
	observations := []model.SearchObservation{
		obsAt(1, "Inglewood", "a", intPtr(1)),
		obsAt(1, "Inglewood", "b", intPtr(4)),
		obsAt(2, "Hawthorne", "a", nil),
		obsAt(2, "Hawthorne", "b", intPtr(7)),
		obsAt(3, "Torrance", "a", nil),
	}

	expected := Aggregate(testClassifier(t), cities, observations)

	rng := rand.New(rand.NewSource(42))
	for range 10 {
		shuffled := make([]model.SearchObservation, len(observations))
		copy(shuffled, observations)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		assert.Equal(t, expected, Aggregate(testClassifier(t), cities, shuffled))
	}
}
