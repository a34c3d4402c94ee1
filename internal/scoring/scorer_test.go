package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendRadar/internal/domain"
)

func uniformScores(value float64) map[string]float64 {
	scores := make(map[string]float64, len(domain.Dimensions))
	for _, dim := range domain.Dimensions {
		scores[dim] = value
	}
	return scores
}

func TestScoreUniformEqualsValue(t *testing.T) {
	t.Parallel()

	// A weighted average of equal values is that value.
	result, err := Score(uniformScores(7.0), DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 7.0, result.Total)
	assert.GreaterOrEqual(t, result.Total, DefaultMinScore)

	result, err = Score(uniformScores(10.0), DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 10.0, result.Total)
}

func TestScoreIsLinearPerDimension(t *testing.T) {
	t.Parallel()

	weights := DefaultWeights()
	base := uniformScores(5.0)

	baseResult, err := Score(base, weights)
	require.NoError(t, err)

	bumped := uniformScores(5.0)
	bumped[domain.DimBusinessRelevance] = 9.0

	bumpedResult, err := Score(bumped, weights)
	require.NoError(t, err)

	assert.InDelta(t, 4.0*weights[domain.DimBusinessRelevance],
		bumpedResult.Total-baseResult.Total, 1e-9)
}

func TestScoreBreakdownSumsToTotal(t *testing.T) {
	t.Parallel()

	scores := uniformScores(5.0)
	scores[domain.DimTrendMaturity] = 2.0
	scores[domain.DimStrategicFit] = 8.5

	result, err := Score(scores, DefaultWeights())
	require.NoError(t, err)
	require.Len(t, result.Contribution, len(domain.Dimensions))

	sum := 0.0
	for _, weighted := range result.Contribution {
		sum += weighted
	}
	assert.InDelta(t, result.Total, sum, 0.01)
}

func TestScoreMissingDimension(t *testing.T) {
	t.Parallel()

	scores := uniformScores(5.0)
	delete(scores, domain.DimMarketPotential)

	_, err := Score(scores, DefaultWeights())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.DimMarketPotential)
}

func TestScoreOutOfRange(t *testing.T) {
	t.Parallel()

	scores := uniformScores(5.0)
	scores[domain.DimNeedForAction] = 10.5

	_, err := Score(scores, DefaultWeights())
	require.Error(t, err)

	scores[domain.DimNeedForAction] = -0.1
	_, err = Score(scores, DefaultWeights())
	require.Error(t, err)
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultWeights().Validate())

	missing := DefaultWeights()
	delete(missing, domain.DimTrendMaturity)
	require.Error(t, missing.Validate())

	negative := DefaultWeights()
	negative[domain.DimTrendMaturity] = -0.05
	negative[domain.DimBusinessRelevance] = 0.30
	require.Error(t, negative.Validate())

	skewed := DefaultWeights()
	skewed[domain.DimBusinessRelevance] = 0.50
	require.Error(t, skewed.Validate())

	// Drift inside the ±0.01 tolerance is accepted.
	slight := DefaultWeights()
	slight[domain.DimTrendMaturity] = 0.055
	require.NoError(t, slight.Validate())
}
