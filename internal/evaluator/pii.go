package evaluator

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/inference"
)

var piiEntityGroups = map[string]bool{
	"PER": true, "PERSON": true,
	"ORG": true, "ORGANIZATION": true,
	"LOC": true, "LOCATION": true,
	"DATE": true,
}

var piiPatterns = map[string]*regexp.Regexp{
	"EMAIL":          regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	"PHONE":          regexp.MustCompile(`\b(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
	"IP_ADDRESS":     regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
	"CREDIT_CARD":    regexp.MustCompile(`\b(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13}|3(?:0[0-5]|[68][0-9])[0-9]{11})\b`),
	"SSN":            regexp.MustCompile(`\b\d{3}[-.]?\d{2}[-.]?\d{4}\b`),
	"DRIVER_LICENSE": regexp.MustCompile(`\b[A-Za-z]\d{4,8}\b`),
}

type piiMatch struct {
	Text  string  `json:"text"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score,omitempty"`
}

// PIIEvaluator detects personally identifiable information with a
// regex pass over known formats plus named entity recognition for
// free-form identifiers. The score grows with the number of distinct
// PII types found, capped at 1.0.
type PIIEvaluator struct {
	loader *modelLoader
	client *inference.Client
	model  string
	log    *zap.Logger
}

func NewPIIEvaluator(client *inference.Client, model string, log *zap.Logger) *PIIEvaluator {
	return &PIIEvaluator{
		loader: newModelLoader(),
		client: client,
		model:  model,
		log:    log,
	}
}

func (e *PIIEvaluator) Kind() domain.EvaluationKind {
	return domain.KindPII
}

func (e *PIIEvaluator) State() domain.EvaluatorState {
	return e.loader.State()
}

func (e *PIIEvaluator) Init(ctx context.Context) error {
	return e.loader.ensure(ctx, func(ctx context.Context) error {
		e.log.Info("loading PII model", zap.String("model", e.model))
		return e.client.Warmup(ctx, e.model)
	})
}

func (e *PIIEvaluator) Evaluate(ctx context.Context, text, _ string) (*domain.Outcome, error) {
	if err := e.Init(ctx); err != nil {
		return nil, fmt.Errorf("initialize pii evaluator: %w", err)
	}

	detected := e.matchPatterns(text)

	entities, err := e.client.TokenClassify(ctx, e.model, text)
	if err != nil {
		return nil, fmt.Errorf("pii entity recognition: %w", err)
	}
	for _, ent := range entities {
		if !piiEntityGroups[ent.EntityGroup] {
			continue
		}
		detected[ent.EntityGroup] = append(detected[ent.EntityGroup], piiMatch{
			Text:  ent.Word,
			Start: ent.Start,
			End:   ent.End,
			Score: ent.Score,
		})
	}

	// 0.2 per distinct PII type, capped.
	score := float64(len(detected)) * 0.2
	if score > 1.0 {
		score = 1.0
	}

	details := make(map[string]interface{}, len(detected))
	for typ, matches := range detected {
		details[typ] = matches
	}

	return &domain.Outcome{
		Kind:  domain.KindPII,
		Score: score,
		Details: map[string]interface{}{
			"detected_pii": details,
			"has_pii":      len(detected) > 0,
		},
	}, nil
}

func (e *PIIEvaluator) matchPatterns(text string) map[string][]piiMatch {
	detected := make(map[string][]piiMatch)
	for typ, pattern := range piiPatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			detected[typ] = append(detected[typ], piiMatch{
				Text:  text[loc[0]:loc[1]],
				Start: loc[0],
				End:   loc[1],
			})
		}
	}
	return detected
}
