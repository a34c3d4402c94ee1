// Package scoring computes the weighted relevance total for an analyzed
// article from its eight dimension scores.
package scoring

import (
	"fmt"
	"math"

	"TrendRadar/internal/domain"
)

// DefaultMinScore is the inclusion threshold newsletters compare totals
// against. The scorer itself is threshold-agnostic.
const DefaultMinScore = 6.0

// weightSumTolerance bounds how far a weight vector may drift from 1.0.
const weightSumTolerance = 0.01

// Weights maps each scoring dimension to its non-negative weight. A valid
// vector covers all eight dimensions and sums to 1.0 within tolerance.
type Weights map[string]float64

// DefaultWeights returns the standard weight table.
func DefaultWeights() Weights {
	return Weights{
		domain.DimBusinessRelevance:   0.20,
		domain.DimDisruptivePotential: 0.15,
		domain.DimInternalKnowHow:     0.10,
		domain.DimMarketPotential:     0.15,
		domain.DimNeedForAction:       0.10,
		domain.DimStrategicFit:        0.15,
		domain.DimTimeToMarketImpact:  0.10,
		domain.DimTrendMaturity:       0.05,
	}
}

// Validate checks the vector covers every dimension with non-negative
// weights summing to 1.0 within tolerance.
func (w Weights) Validate() error {
	sum := 0.0
	for _, dim := range domain.Dimensions {
		weight, ok := w[dim]
		if !ok {
			return fmt.Errorf("weight for dimension %q is missing", dim)
		}
		if weight < 0 {
			return fmt.Errorf("weight for dimension %q is negative: %v", dim, weight)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights sum to %v, expected 1.0 within ±%v", sum, weightSumTolerance)
	}
	return nil
}

// Result carries the weighted total and the per-dimension contributions that
// produced it, for auditability.
type Result struct {
	Total        float64
	Contribution map[string]float64
}

// Score computes the weighted total over the eight dimensions. It fails with
// a configuration error when a dimension is missing from either mapping, a
// score lies outside [0,10], or the weight vector is invalid; malformed input
// is never silently corrected.
func Score(scores map[string]float64, weights Weights) (Result, error) {
	if err := weights.Validate(); err != nil {
		return Result{}, err
	}

	contribution := make(map[string]float64, len(domain.Dimensions))
	total := 0.0
	for _, dim := range domain.Dimensions {
		score, ok := scores[dim]
		if !ok {
			return Result{}, fmt.Errorf("score for dimension %q is missing", dim)
		}
		if score < 0 || score > 10 {
			return Result{}, fmt.Errorf("score for dimension %q is out of range [0,10]: %v", dim, score)
		}
		weighted := score * weights[dim]
		contribution[dim] = weighted
		total += weighted
	}

	return Result{
		Total:        math.Round(total*100) / 100,
		Contribution: contribution,
	}, nil
}
