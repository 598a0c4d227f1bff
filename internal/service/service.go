package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/evaluator"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/metrics"
)

// Service composes the registry, dispatcher and aggregator behind one
// Evaluate entry point. It owns the registry: exactly one Service is
// constructed at process start and handed to the transport layer.
type Service struct {
	registry   *evaluator.Registry
	dispatcher *evaluator.Dispatcher
	aggregator *evaluator.Aggregator
	log        *zap.Logger
}

func New(registry *evaluator.Registry, weights evaluator.WeightTable, log *zap.Logger) *Service {
	return &Service{
		registry:   registry,
		dispatcher: evaluator.NewDispatcher(registry, log),
		aggregator: evaluator.NewAggregator(weights),
		log:        log,
	}
}

// Evaluate runs the requested evaluation kinds against the text and
// fuses their outcomes into one aggregate result. An empty kind list
// runs every registered evaluator. Per-kind failures are contained as
// degraded outcomes; the returned error covers only faults of the
// orchestration itself.
func (s *Service) Evaluate(ctx context.Context, req *domain.EvaluationRequest) (*domain.AggregateResult, error) {
	if req == nil || req.Text == "" {
		return nil, fmt.Errorf("text is required")
	}

	outcomes := map[domain.EvaluationKind]domain.Outcome{}
	kinds := req.Kinds()
	if len(req.Evaluations) == 0 || len(kinds) > 0 {
		// An absent kind list means the full registered set; a list
		// whose every name is unknown means nothing to run.
		outcomes = s.dispatcher.Dispatch(ctx, req.Text, req.Context, kinds)
	}
	score := s.aggregator.SafetyScore(outcomes)
	metrics.ObserveSafetyScore(score)

	result := &domain.AggregateResult{
		SafetyScore: score,
		Text:        req.Text,
		Context:     req.Context,
		Evaluations: outcomes,
	}

	s.log.Info("evaluation completed",
		zap.Float64("safety_score", score),
		zap.Int("kinds", len(outcomes)))

	return result, nil
}

// Health reports each registered evaluator's model state.
func (s *Service) Health() map[domain.EvaluationKind]domain.EvaluatorState {
	return s.registry.States()
}

// Warmup eagerly initializes every registered evaluator. Load failures
// are logged per kind and do not abort the rest: evaluators stay lazy
// and will retry on first use.
func (s *Service) Warmup(ctx context.Context) {
	for _, kind := range s.registry.Kinds() {
		eval, _ := s.registry.Get(kind)
		if err := eval.Init(ctx); err != nil {
			s.log.Warn("warmup failed",
				zap.String("kind", string(kind)),
				zap.Error(err))
		}
	}
}
