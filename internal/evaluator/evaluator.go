package evaluator

import (
	"context"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
)

// Evaluator is a single pluggable safety check. Implementations wrap a
// model-backed inference call behind Evaluate and load their model
// lazily: the first Evaluate triggers Init, and concurrent first users
// share one load (see modelLoader).
//
// Evaluate must not mutate text or refContext. refContext is only
// meaningful for kinds that score the text against a reference
// document (hallucination); other kinds ignore it.
type Evaluator interface {
	Kind() domain.EvaluationKind
	Init(ctx context.Context) error
	State() domain.EvaluatorState
	Evaluate(ctx context.Context, text, refContext string) (*domain.Outcome, error)
}
