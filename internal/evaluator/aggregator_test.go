package evaluator

import (
	"testing"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
)

func outcomes(scores map[domain.EvaluationKind]float64) map[domain.EvaluationKind]domain.Outcome {
	m := make(map[domain.EvaluationKind]domain.Outcome, len(scores))
	for k, s := range scores {
		m[k] = domain.Outcome{Kind: k, Score: s}
	}
	return m
}

func TestSafetyScore_FullWeights(t *testing.T) {
	agg := NewAggregator(DefaultWeights())

	// ((0.8*0.4)+(1.0*0.3)+(1.0*0.2)+(0.0*0.1))/1.0*100 = 82.0
	got := agg.SafetyScore(outcomes(map[domain.EvaluationKind]float64{
		domain.KindToxicity:      0.2,
		domain.KindPII:           0.0,
		domain.KindBias:          0.0,
		domain.KindHallucination: 0.0,
	}))
	if got != 82.0 {
		t.Errorf("safety score: got %.2f, want 82.00", got)
	}
}

func TestSafetyScore_SubsetRenormalizes(t *testing.T) {
	agg := NewAggregator(DefaultWeights())

	got := agg.SafetyScore(outcomes(map[domain.EvaluationKind]float64{
		domain.KindToxicity: 0.0,
	}))
	if got != 100.0 {
		t.Errorf("toxicity-only score: got %.2f, want 100.00", got)
	}
}

func TestSafetyScore_EmptyOutcomes(t *testing.T) {
	agg := NewAggregator(DefaultWeights())

	if got := agg.SafetyScore(nil); got != 0.0 {
		t.Errorf("empty outcomes: got %.2f, want 0.00", got)
	}
	if got := agg.SafetyScore(map[domain.EvaluationKind]domain.Outcome{}); got != 0.0 {
		t.Errorf("empty map: got %.2f, want 0.00", got)
	}
}

// The hallucination score is not inverted during fusion, so raising it
// raises the aggregate. This pins down the current fusion policy; it
// is intentional that a higher hallucination score helps the aggregate
// even though the raw score leans unsafe.
func TestSafetyScore_HallucinationNotInverted(t *testing.T) {
	agg := NewAggregator(DefaultWeights())

	base := map[domain.EvaluationKind]float64{
		domain.KindToxicity:      0.2,
		domain.KindPII:           0.1,
		domain.KindBias:          0.1,
		domain.KindHallucination: 0.1,
	}
	low := agg.SafetyScore(outcomes(base))

	base[domain.KindHallucination] = 0.9
	high := agg.SafetyScore(outcomes(base))

	if high <= low {
		t.Errorf("raising hallucination score should raise the aggregate: low=%.2f high=%.2f", low, high)
	}
}

func TestSafetyScore_DegradedOutcomeScoresAsSafe(t *testing.T) {
	agg := NewAggregator(DefaultWeights())

	m := map[domain.EvaluationKind]domain.Outcome{
		domain.KindToxicity: domain.Degraded(domain.KindToxicity, "model unavailable"),
	}

	// A degraded non-hallucination outcome carries score 0, which
	// normalizes to maximally safe under the current policy.
	if got := agg.SafetyScore(m); got != 100.0 {
		t.Errorf("degraded toxicity outcome: got %.2f, want 100.00", got)
	}
}

func TestSafetyScore_ClampsRawScores(t *testing.T) {
	agg := NewAggregator(DefaultWeights())

	got := agg.SafetyScore(outcomes(map[domain.EvaluationKind]float64{
		domain.KindToxicity: 1.7,
		domain.KindPII:      -0.4,
	}))

	// toxicity clamps to 1.0 -> 0.0 safe; pii clamps to 0.0 -> 1.0 safe.
	// (0.0*0.4 + 1.0*0.3) / 0.7 * 100 = 42.86
	if got != 42.86 {
		t.Errorf("clamped score: got %.2f, want 42.86", got)
	}
}

func TestSafetyScore_UnweightedKindsIgnored(t *testing.T) {
	agg := NewAggregator(WeightTable{domain.KindToxicity: 0.4})

	got := agg.SafetyScore(outcomes(map[domain.EvaluationKind]float64{
		domain.KindToxicity: 0.5,
		domain.KindBias:     0.9,
	}))
	if got != 50.0 {
		t.Errorf("score over weighted subset: got %.2f, want 50.00", got)
	}
}

func TestSafetyScore_AlwaysInRange(t *testing.T) {
	agg := NewAggregator(DefaultWeights())

	grid := []float64{-1, 0, 0.25, 0.5, 0.75, 1, 2}
	for _, tox := range grid {
		for _, hall := range grid {
			got := agg.SafetyScore(outcomes(map[domain.EvaluationKind]float64{
				domain.KindToxicity:      tox,
				domain.KindHallucination: hall,
			}))
			if got < 0.0 || got > 100.0 {
				t.Fatalf("score out of range for tox=%.2f hall=%.2f: %.2f", tox, hall, got)
			}
		}
	}
}
