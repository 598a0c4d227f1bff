package evaluator

import (
	"math"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
)

// WeightTable maps each kind to its fixed fusion weight. Weights are
// constant for the process lifetime and need not sum to 1; the
// aggregator renormalizes over the subset actually evaluated.
type WeightTable map[domain.EvaluationKind]float64

// DefaultWeights is the process-wide weighting policy.
func DefaultWeights() WeightTable {
	return WeightTable{
		domain.KindToxicity:      0.4,
		domain.KindPII:           0.3,
		domain.KindBias:          0.2,
		domain.KindHallucination: 0.1,
	}
}

// Aggregator fuses per-kind outcomes into one safety score in [0,100],
// higher meaning safer.
type Aggregator struct {
	weights WeightTable
}

func NewAggregator(weights WeightTable) *Aggregator {
	return &Aggregator{weights: weights}
}

// SafetyScore computes the weighted safety score over the kinds present
// in both the outcome set and the weight table.
//
// Raw scores lean unsafe (higher = more unsafe), so each is inverted
// to a safety-positive scale before weighting. The hallucination score
// is deliberately NOT inverted: that asymmetry is how the fusion
// policy has always behaved and callers depend on the current output,
// so it is kept as-is rather than silently corrected. Degraded
// outcomes contribute their zero score through the same formula.
func (a *Aggregator) SafetyScore(outcomes map[domain.EvaluationKind]domain.Outcome) float64 {
	if len(outcomes) == 0 {
		return 0.0
	}

	var total, totalWeight float64
	for kind, outcome := range outcomes {
		weight, ok := a.weights[kind]
		if !ok {
			continue
		}

		s := clamp01(outcome.Score)
		normalized := 1.0 - s
		if kind == domain.KindHallucination {
			normalized = s
		}

		total += normalized * weight
		totalWeight += weight
	}

	if totalWeight <= 0 {
		return 0.0
	}

	return round2(total / totalWeight * 100)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0.0), 1.0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
