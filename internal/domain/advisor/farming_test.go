package advisor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFarmingTypesScoresAndOrdering(t *testing.T) {
	profile := FarmerProfile{State: "Punjab", SoilType: "Loamy", Acreage: 8, Budget: 120000}

	types := farmingTypes(profile)

	require.Len(t, types, 5)
	for i, ft := range types {
		require.GreaterOrEqual(t, ft.Suitability, 0.0)
		require.LessOrEqual(t, ft.Suitability, 1.0)
		if i > 0 {
			require.LessOrEqual(t, ft.Suitability, types[i-1].Suitability)
		}
		require.NotEmpty(t, ft.Benefits)
		require.NotEmpty(t, ft.Challenges)
		require.NotEmpty(t, ft.RecommendedCrops)
	}
}

func TestFarmingTypesIdempotent(t *testing.T) {
	profile := FarmerProfile{State: "Bihar", SoilType: "Clay", Acreage: 4, Budget: 60000}

	first := farmingTypes(profile)
	second := farmingTypes(profile)

	require.Equal(t, first, second)
}

func TestOrganicScoreComponents(t *testing.T) {
	// Base only.
	require.Equal(t, 0.5, organicScore(FarmerProfile{SoilType: "Sandy", Acreage: 50, Budget: 10000}))
	// All bonuses.
	require.InDelta(t, 0.85, organicScore(FarmerProfile{SoilType: "Clay", Acreage: 5, Budget: 50000}), 0.0001)
}

func TestPrecisionFavorsLargeBudgets(t *testing.T) {
	small := precisionScore(FarmerProfile{Acreage: 2, Budget: 20000})
	large := precisionScore(FarmerProfile{Acreage: 50, Budget: 500000})

	require.Less(t, small, large)
	require.InDelta(t, 0.75, large, 0.0001)
}

func TestScoresNeverExceedOne(t *testing.T) {
	profile := FarmerProfile{SoilType: "Loamy", Acreage: 10, Budget: 10000000}
	for _, score := range []float64{
		organicScore(profile),
		intensiveScore(profile),
		mixedScore(profile),
		precisionScore(profile),
		sustainableScore(profile),
	} {
		require.LessOrEqual(t, score, 1.0)
	}
}
