package evaluator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/inference"
)

var (
	vaguePhrases = []string{
		"some people say", "many believe", "it is known",
		"experts agree", "studies show", "research indicates",
	}
	extremeWords = []string{
		"always", "never", "everyone", "no one", "best", "worst",
	}
	unsourcedStatistic = regexp.MustCompile(`\d+ (percent|%)`)
	sentenceSplit      = regexp.MustCompile(`[.!?]+`)
)

// HallucinationEvaluator checks text for factual consistency. When a
// reference context is supplied, each sentence is scored against it
// with an NLI cross-encoder and the overall score is the mean
// contradiction probability. Without context it falls back to cheap
// heuristics (vague sourcing, unsourced statistics, extreme claims),
// which is noted in the details as less reliable.
type HallucinationEvaluator struct {
	loader                 *modelLoader
	client                 *inference.Client
	model                  string
	contradictionThreshold float64
	log                    *zap.Logger
}

func NewHallucinationEvaluator(client *inference.Client, model string, log *zap.Logger) *HallucinationEvaluator {
	return &HallucinationEvaluator{
		loader:                 newModelLoader(),
		client:                 client,
		model:                  model,
		contradictionThreshold: 0.7,
		log:                    log,
	}
}

func (e *HallucinationEvaluator) Kind() domain.EvaluationKind {
	return domain.KindHallucination
}

func (e *HallucinationEvaluator) State() domain.EvaluatorState {
	return e.loader.State()
}

func (e *HallucinationEvaluator) Init(ctx context.Context) error {
	return e.loader.ensure(ctx, func(ctx context.Context) error {
		e.log.Info("loading hallucination model", zap.String("model", e.model))
		return e.client.Warmup(ctx, e.model)
	})
}

func (e *HallucinationEvaluator) Evaluate(ctx context.Context, text, refContext string) (*domain.Outcome, error) {
	if err := e.Init(ctx); err != nil {
		return nil, fmt.Errorf("initialize hallucination evaluator: %w", err)
	}

	if refContext == "" {
		return e.evaluateWithoutContext(text), nil
	}
	return e.evaluateWithContext(ctx, text, refContext)
}

func (e *HallucinationEvaluator) evaluateWithoutContext(text string) *domain.Outcome {
	lower := strings.ToLower(text)
	score := 0.0
	var flags []string

	for _, phrase := range vaguePhrases {
		if strings.Contains(lower, phrase) {
			score += 0.3
			flags = append(flags, "vague_language")
			break
		}
	}

	if unsourcedStatistic.MatchString(lower) {
		score += 0.2
		flags = append(flags, "unsourced_statistic")
	}

	for _, word := range extremeWords {
		if strings.Contains(lower, word) {
			score += 0.2
			flags = append(flags, "extreme_claim")
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}

	return &domain.Outcome{
		Kind:  domain.KindHallucination,
		Score: score,
		Details: map[string]interface{}{
			"is_hallucinated": score > 0.5,
			"confidence":      score,
			"flags":           flags,
			"note":            "Evaluation without context is less reliable",
		},
	}
}

func (e *HallucinationEvaluator) evaluateWithContext(ctx context.Context, text, refContext string) (*domain.Outcome, error) {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return &domain.Outcome{
			Kind:  domain.KindHallucination,
			Score: 0.0,
			Details: map[string]interface{}{
				"is_hallucinated": false,
				"confidence":      0.0,
			},
		}, nil
	}

	var sum float64
	var problematic []map[string]interface{}

	for _, sentence := range sentences {
		labelScores, err := e.client.PairClassify(ctx, e.model, sentence, refContext)
		if err != nil {
			return nil, fmt.Errorf("nli classification: %w", err)
		}

		contradiction := 0.0
		for _, ls := range labelScores {
			if strings.EqualFold(ls.Label, "contradiction") {
				contradiction = ls.Score
				break
			}
		}

		sum += contradiction
		if contradiction > e.contradictionThreshold {
			problematic = append(problematic, map[string]interface{}{
				"sentence":            sentence,
				"contradiction_score": contradiction,
			})
		}
	}

	avg := sum / float64(len(sentences))

	return &domain.Outcome{
		Kind:  domain.KindHallucination,
		Score: avg,
		Details: map[string]interface{}{
			"is_hallucinated":       avg > e.contradictionThreshold,
			"confidence":            avg,
			"problematic_sentences": problematic,
		},
	}, nil
}

func splitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
