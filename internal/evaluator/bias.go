package evaluator

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/inference"
)

// BiasEvaluator scores text across bias categories with a sequence
// classification model; the overall score is the highest category
// score.
type BiasEvaluator struct {
	loader *modelLoader
	client *inference.Client
	model  string
	log    *zap.Logger
}

func NewBiasEvaluator(client *inference.Client, model string, log *zap.Logger) *BiasEvaluator {
	return &BiasEvaluator{
		loader: newModelLoader(),
		client: client,
		model:  model,
		log:    log,
	}
}

func (e *BiasEvaluator) Kind() domain.EvaluationKind {
	return domain.KindBias
}

func (e *BiasEvaluator) State() domain.EvaluatorState {
	return e.loader.State()
}

func (e *BiasEvaluator) Init(ctx context.Context) error {
	return e.loader.ensure(ctx, func(ctx context.Context) error {
		e.log.Info("loading bias model", zap.String("model", e.model))
		return e.client.Warmup(ctx, e.model)
	})
}

func (e *BiasEvaluator) Evaluate(ctx context.Context, text, _ string) (*domain.Outcome, error) {
	if err := e.Init(ctx); err != nil {
		return nil, fmt.Errorf("initialize bias evaluator: %w", err)
	}

	labelScores, err := e.client.TextClassify(ctx, e.model, text)
	if err != nil {
		return nil, fmt.Errorf("bias classification: %w", err)
	}

	sort.Slice(labelScores, func(i, j int) bool {
		return labelScores[i].Score > labelScores[j].Score
	})

	biasScores := make(map[string]interface{}, len(labelScores))
	overall := 0.0
	for _, ls := range labelScores {
		biasScores[ls.Label] = ls.Score
		if ls.Score > overall {
			overall = ls.Score
		}
	}

	topN := 3
	if len(labelScores) < topN {
		topN = len(labelScores)
	}
	topBiases := make([]map[string]interface{}, 0, topN)
	for _, ls := range labelScores[:topN] {
		topBiases = append(topBiases, map[string]interface{}{
			"category": ls.Label,
			"score":    ls.Score,
		})
	}

	return &domain.Outcome{
		Kind:  domain.KindBias,
		Score: overall,
		Details: map[string]interface{}{
			"bias_scores": biasScores,
			"top_biases":  topBiases,
			"has_bias":    overall > 0.5,
		},
	}, nil
}
