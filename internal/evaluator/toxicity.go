package evaluator

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/inference"
)

var toxicityLabels = []string{
	"toxic", "severe_toxic", "obscene", "threat", "insult", "identity_hate",
}

// ToxicityEvaluator scores text for toxic content with zero-shot
// classification over the toxicity label set; the overall score is the
// max label score. When an OpenAI API key is configured the moderation
// endpoint is used instead of the zero-shot model.
type ToxicityEvaluator struct {
	loader       *modelLoader
	client       *inference.Client
	model        string
	openaiClient *openai.Client
	log          *zap.Logger
}

func NewToxicityEvaluator(client *inference.Client, model string, openaiAPIKey string, log *zap.Logger) *ToxicityEvaluator {
	e := &ToxicityEvaluator{
		loader: newModelLoader(),
		client: client,
		model:  model,
		log:    log,
	}
	if openaiAPIKey != "" {
		e.openaiClient = openai.NewClient(openaiAPIKey)
	}
	return e
}

func (e *ToxicityEvaluator) Kind() domain.EvaluationKind {
	return domain.KindToxicity
}

func (e *ToxicityEvaluator) State() domain.EvaluatorState {
	return e.loader.State()
}

func (e *ToxicityEvaluator) Init(ctx context.Context) error {
	return e.loader.ensure(ctx, func(ctx context.Context) error {
		if e.openaiClient != nil {
			// The moderation endpoint has no model to preload.
			return nil
		}
		e.log.Info("loading toxicity model", zap.String("model", e.model))
		return e.client.Warmup(ctx, e.model)
	})
}

func (e *ToxicityEvaluator) Evaluate(ctx context.Context, text, _ string) (*domain.Outcome, error) {
	if err := e.Init(ctx); err != nil {
		return nil, fmt.Errorf("initialize toxicity evaluator: %w", err)
	}

	if e.openaiClient != nil {
		return e.evaluateWithModeration(ctx, text)
	}

	labelScores, err := e.client.ZeroShot(ctx, e.model, text, toxicityLabels)
	if err != nil {
		return nil, fmt.Errorf("toxicity classification: %w", err)
	}

	scores := make(map[string]interface{}, len(labelScores))
	overall := 0.0
	for _, ls := range labelScores {
		scores[ls.Label] = ls.Score
		if ls.Score > overall {
			overall = ls.Score
		}
	}

	return &domain.Outcome{
		Kind:  domain.KindToxicity,
		Score: overall,
		Details: map[string]interface{}{
			"scores":   scores,
			"is_toxic": overall > 0.5,
		},
	}, nil
}

func (e *ToxicityEvaluator) evaluateWithModeration(ctx context.Context, text string) (*domain.Outcome, error) {
	resp, err := e.openaiClient.Moderations(ctx, openai.ModerationRequest{
		Input: text,
		Model: openai.ModerationTextStable,
	})
	if err != nil {
		return nil, fmt.Errorf("moderation request: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("empty moderation response")
	}

	result := resp.Results[0]
	scores := map[string]interface{}{
		"hate":             result.CategoryScores.Hate,
		"hate_threatening": result.CategoryScores.HateThreatening,
		"harassment":       result.CategoryScores.Harassment,
		"violence":         result.CategoryScores.Violence,
		"sexual":           result.CategoryScores.Sexual,
		"self_harm":        result.CategoryScores.SelfHarm,
	}

	overall := 0.0
	for _, v := range []float64{
		float64(result.CategoryScores.Hate),
		float64(result.CategoryScores.HateThreatening),
		float64(result.CategoryScores.Harassment),
		float64(result.CategoryScores.Violence),
		float64(result.CategoryScores.Sexual),
		float64(result.CategoryScores.SelfHarm),
	} {
		if v > overall {
			overall = v
		}
	}

	return &domain.Outcome{
		Kind:  domain.KindToxicity,
		Score: overall,
		Details: map[string]interface{}{
			"scores":   scores,
			"is_toxic": result.Flagged,
			"backend":  "openai_moderation",
		},
	}, nil
}
