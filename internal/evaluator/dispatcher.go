package evaluator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/metrics"
)

// Dispatcher fans evaluate calls out across the registry and collects
// exactly one outcome per requested-and-registered kind. A faulting
// evaluator never blocks collection of the others: its error (or
// panic) is contained into a degraded zero-score outcome. Every
// launched unit runs to completion; there is no early return and no
// per-unit timeout.
type Dispatcher struct {
	registry *Registry
	log      *zap.Logger
}

func NewDispatcher(registry *Registry, log *zap.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, log: log}
}

type unitResult struct {
	kind    domain.EvaluationKind
	outcome domain.Outcome
}

// Dispatch runs the requested kinds concurrently. An empty kinds slice
// means the full registered set. Kinds with no registered evaluator
// are silently dropped, and repeated kinds run only once.
func (d *Dispatcher) Dispatch(ctx context.Context, text, refContext string, kinds []domain.EvaluationKind) map[domain.EvaluationKind]domain.Outcome {
	if len(kinds) == 0 {
		kinds = d.registry.Kinds()
	}

	var targets []domain.EvaluationKind
	seen := make(map[domain.EvaluationKind]bool, len(kinds))
	for _, k := range kinds {
		if seen[k] {
			continue
		}
		seen[k] = true
		if _, ok := d.registry.Get(k); ok {
			targets = append(targets, k)
		}
	}

	results := make(chan unitResult, len(targets))
	for _, kind := range targets {
		eval, _ := d.registry.Get(kind)
		go func(kind domain.EvaluationKind, eval Evaluator) {
			results <- unitResult{kind: kind, outcome: d.runUnit(ctx, eval, text, refContext)}
		}(kind, eval)
	}

	outcomes := make(map[domain.EvaluationKind]domain.Outcome, len(targets))
	for range targets {
		r := <-results
		outcomes[r.kind] = r.outcome
	}

	return outcomes
}

// runUnit executes one evaluator and converts any failure mode into a
// degraded outcome. Panics are recovered here so that no fault crosses
// the dispatcher boundary.
func (d *Dispatcher) runUnit(ctx context.Context, eval Evaluator, text, refContext string) (outcome domain.Outcome) {
	kind := eval.Kind()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("evaluator panicked",
				zap.String("kind", string(kind)),
				zap.Any("panic", r))
			outcome = domain.Degraded(kind, fmt.Sprintf("evaluator panic: %v", r))
			metrics.ObserveEvaluation(kind, "panic", time.Since(start))
		}
	}()

	result, err := eval.Evaluate(ctx, text, refContext)
	if err != nil {
		d.log.Warn("evaluation failed",
			zap.String("kind", string(kind)),
			zap.Error(err))
		metrics.ObserveEvaluation(kind, "error", time.Since(start))
		return domain.Degraded(kind, err.Error())
	}

	metrics.ObserveEvaluation(kind, "ok", time.Since(start))
	return *result
}
