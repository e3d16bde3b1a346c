package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankradius/rankradius/internal/model"
)

func summary(tier int, outerKM, coverage float64, appearing int, avgPos *float64) model.TierSummary {
	return model.TierSummary{
		Tier:           tier,
		InnerKM:        outerKM - 5,
		OuterKM:        outerKM,
		CityCount:      appearing + 1,
		ObservationCnt: 10,
		AppearingCnt:   appearing,
		CoveragePct:    coverage,
		AvgPosition:    avgPos,
	}
}

func TestComputeDominance_StopsAtFirstFailingTier(t *testing.T) {
	summaries := []model.TierSummary{
		summary(1, 5, 0.9, 9, floatPtr(2.0)),
		summary(2, 10, 0.6, 6, floatPtr(5.0)),
		summary(3, 15, 0.3, 3, floatPtr(12.0)),
	}

	profile := ComputeDominance(summaries, 0.5)

	assert.Equal(t, 10.0, profile.RadiusKM, "radius ends at tier 2's outer boundary")
	assert.Equal(t, 2, profile.DominantTier)
	assert.True(t, profile.Dominant())

	// Weighted by appearing counts: (2.0*9 + 5.0*6) / 15.
	require.NotNil(t, profile.AvgPositionOverall)
	assert.InDelta(t, 3.2, *profile.AvgPositionOverall, 0.001)
}

func TestComputeDominance_Tier1Fails(t *testing.T) {
	summaries := []model.TierSummary{
		summary(1, 5, 0.4, 4, floatPtr(9.0)),
		summary(2, 10, 0.8, 8, floatPtr(3.0)),
	}

	profile := ComputeDominance(summaries, 0.5)

	assert.Equal(t, 0.0, profile.RadiusKM)
	assert.Equal(t, 0, profile.DominantTier)
	assert.False(t, profile.Dominant())
	assert.Nil(t, profile.AvgPositionOverall)
}

func TestComputeDominance_AllTiersPass(t *testing.T) {
	summaries := []model.TierSummary{
		summary(1, 5, 1.0, 10, floatPtr(1.0)),
		summary(2, 10, 0.9, 9, floatPtr(2.0)),
		summary(3, 15, 0.7, 7, floatPtr(4.0)),
		summary(4, 25, 0.5, 5, floatPtr(6.0)),
	}

	profile := ComputeDominance(summaries, 0.5)

	assert.Equal(t, 25.0, profile.RadiusKM)
	assert.Equal(t, 4, profile.DominantTier)
}

func TestComputeDominance_ThresholdIsInclusive(t *testing.T) {
	summaries := []model.TierSummary{
		summary(1, 5, 0.5, 5, floatPtr(3.0)),
	}

	profile := ComputeDominance(summaries, 0.5)
	assert.Equal(t, 5.0, profile.RadiusKM, "coverage meeting the threshold exactly passes")
}

func TestComputeDominance_TierGapEndsScan(t *testing.T) {
	// Tier 2 had no cities and was omitted; tier 3 coverage cannot extend
	// dominance across the unsampled ring.
	summaries := []model.TierSummary{
		summary(1, 5, 0.9, 9, floatPtr(2.0)),
		summary(3, 15, 0.9, 9, floatPtr(3.0)),
	}

	profile := ComputeDominance(summaries, 0.5)
	assert.Equal(t, 5.0, profile.RadiusKM)
	assert.Equal(t, 1, profile.DominantTier)
}

func TestComputeDominance_UnsampledTierFails(t *testing.T) {
	unsampled := model.TierSummary{Tier: 1, OuterKM: 5, CityCount: 3}

	profile := ComputeDominance([]model.TierSummary{unsampled}, 0.5)
	assert.False(t, profile.Dominant())
}

func TestComputeDominance_Empty(t *testing.T) {
	profile := ComputeDominance(nil, 0.5)
	assert.Equal(t, 0.0, profile.RadiusKM)
	assert.False(t, profile.Dominant())
}

func TestComputeDominance_DefaultThreshold(t *testing.T) {
	summaries := []model.TierSummary{
		summary(1, 5, 0.6, 6, floatPtr(2.0)),
	}

	// Zero threshold falls back to the 0.5 default.
	profile := ComputeDominance(summaries, 0)
	assert.Equal(t, 5.0, profile.RadiusKM)
}
