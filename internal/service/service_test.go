package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/evaluator"
)

type fakeEvaluator struct {
	kind  domain.EvaluationKind
	score float64
	err   error
	state domain.EvaluatorState
	inits int
}

func (f *fakeEvaluator) Kind() domain.EvaluationKind { return f.kind }

func (f *fakeEvaluator) Init(context.Context) error {
	f.inits++
	if f.err != nil {
		return f.err
	}
	f.state = domain.StateReady
	return nil
}

func (f *fakeEvaluator) State() domain.EvaluatorState {
	if f.state == "" {
		return domain.StateUninitialized
	}
	return f.state
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, text, refContext string) (*domain.Outcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Outcome{Kind: f.kind, Score: f.score}, nil
}

func newTestService(t *testing.T, evals ...evaluator.Evaluator) *Service {
	t.Helper()
	registry, err := evaluator.NewRegistry(evals...)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return New(registry, evaluator.DefaultWeights(), zap.NewNop())
}

func TestEvaluate_DefaultsToAllKinds(t *testing.T) {
	svc := newTestService(t,
		&fakeEvaluator{kind: domain.KindToxicity, score: 0.2},
		&fakeEvaluator{kind: domain.KindPII, score: 0.0},
		&fakeEvaluator{kind: domain.KindBias, score: 0.0},
		&fakeEvaluator{kind: domain.KindHallucination, score: 0.0},
	)

	result, err := svc.Evaluate(context.Background(), &domain.EvaluationRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if len(result.Evaluations) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(result.Evaluations))
	}
	if result.SafetyScore != 82.0 {
		t.Errorf("safety score: got %.2f, want 82.00", result.SafetyScore)
	}
	if result.Text != "hello" {
		t.Errorf("text echoed back: got %q", result.Text)
	}
}

func TestEvaluate_RequestedSubset(t *testing.T) {
	svc := newTestService(t,
		&fakeEvaluator{kind: domain.KindToxicity, score: 0.0},
		&fakeEvaluator{kind: domain.KindPII, score: 0.9},
	)

	result, err := svc.Evaluate(context.Background(), &domain.EvaluationRequest{
		Text:        "hello",
		Evaluations: []string{"toxicity"},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if len(result.Evaluations) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(result.Evaluations))
	}
	if result.SafetyScore != 100.0 {
		t.Errorf("toxicity-only score: got %.2f, want 100.00", result.SafetyScore)
	}
}

func TestEvaluate_UnknownKindNamesDropped(t *testing.T) {
	svc := newTestService(t, &fakeEvaluator{kind: domain.KindToxicity, score: 0.0})

	result, err := svc.Evaluate(context.Background(), &domain.EvaluationRequest{
		Text:        "hello",
		Evaluations: []string{"toxicity", "sentiment", ""},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(result.Evaluations) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(result.Evaluations))
	}
}

func TestEvaluate_AllUnknownKindsEvaluatesNothing(t *testing.T) {
	svc := newTestService(t, &fakeEvaluator{kind: domain.KindToxicity, score: 0.0})

	result, err := svc.Evaluate(context.Background(), &domain.EvaluationRequest{
		Text:        "hello",
		Evaluations: []string{"sentiment"},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(result.Evaluations) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(result.Evaluations))
	}
	if result.SafetyScore != 0.0 {
		t.Errorf("empty outcome set score: got %.2f, want 0.00", result.SafetyScore)
	}
}

func TestEvaluate_RequiresText(t *testing.T) {
	svc := newTestService(t, &fakeEvaluator{kind: domain.KindToxicity})

	if _, err := svc.Evaluate(context.Background(), &domain.EvaluationRequest{}); err == nil {
		t.Fatal("expected error for empty text")
	}
	if _, err := svc.Evaluate(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil request")
	}
}

func TestEvaluate_FaultingEvaluatorDegrades(t *testing.T) {
	svc := newTestService(t,
		&fakeEvaluator{kind: domain.KindToxicity, score: 0.2},
		&fakeEvaluator{kind: domain.KindBias, err: errors.New("load failed")},
	)

	result, err := svc.Evaluate(context.Background(), &domain.EvaluationRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("one faulting evaluator must not fail the request: %v", err)
	}

	if result.Evaluations[domain.KindBias].Error == "" {
		t.Error("faulting kind should carry an error annotation")
	}
	if result.Evaluations[domain.KindToxicity].Score != 0.2 {
		t.Error("healthy kind lost its outcome")
	}
	if result.SafetyScore < 0 || result.SafetyScore > 100 {
		t.Errorf("safety score out of range: %.2f", result.SafetyScore)
	}
}

func TestHealth_ReportsPerKindState(t *testing.T) {
	ready := &fakeEvaluator{kind: domain.KindToxicity, state: domain.StateReady}
	cold := &fakeEvaluator{kind: domain.KindPII}
	svc := newTestService(t, ready, cold)

	states := svc.Health()
	if states[domain.KindToxicity] != domain.StateReady {
		t.Errorf("toxicity state: got %q, want %q", states[domain.KindToxicity], domain.StateReady)
	}
	if states[domain.KindPII] != domain.StateUninitialized {
		t.Errorf("pii state: got %q, want %q", states[domain.KindPII], domain.StateUninitialized)
	}
}

func TestWarmup_InitializesEveryEvaluator(t *testing.T) {
	a := &fakeEvaluator{kind: domain.KindToxicity}
	b := &fakeEvaluator{kind: domain.KindPII, err: errors.New("weights unavailable")}
	c := &fakeEvaluator{kind: domain.KindBias}
	svc := newTestService(t, a, b, c)

	svc.Warmup(context.Background())

	for _, f := range []*fakeEvaluator{a, b, c} {
		if f.inits != 1 {
			t.Errorf("%s: got %d init calls, want 1", f.kind, f.inits)
		}
	}
	if a.State() != domain.StateReady {
		t.Error("successful warmup should leave evaluator ready")
	}
	if b.State() == domain.StateReady {
		t.Error("failed warmup must not mark evaluator ready")
	}
}
