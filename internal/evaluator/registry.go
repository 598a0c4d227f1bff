package evaluator

import (
	"fmt"
	"sort"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
)

// Registry is the fixed set of evaluators, keyed by kind. It is built
// once at startup and read-only afterwards, so it is safe to share
// across concurrent requests without locking.
type Registry struct {
	evaluators map[domain.EvaluationKind]Evaluator
}

func NewRegistry(evaluators ...Evaluator) (*Registry, error) {
	r := &Registry{evaluators: make(map[domain.EvaluationKind]Evaluator, len(evaluators))}
	for _, e := range evaluators {
		if _, exists := r.evaluators[e.Kind()]; exists {
			return nil, fmt.Errorf("duplicate evaluator for kind %q", e.Kind())
		}
		r.evaluators[e.Kind()] = e
	}
	return r, nil
}

func (r *Registry) Get(kind domain.EvaluationKind) (Evaluator, bool) {
	e, ok := r.evaluators[kind]
	return e, ok
}

// Kinds returns the registered kinds in stable order.
func (r *Registry) Kinds() []domain.EvaluationKind {
	kinds := make([]domain.EvaluationKind, 0, len(r.evaluators))
	for k := range r.evaluators {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (r *Registry) Len() int {
	return len(r.evaluators)
}

// States reports each registered evaluator's lifecycle state for the
// health surface.
func (r *Registry) States() map[domain.EvaluationKind]domain.EvaluatorState {
	states := make(map[domain.EvaluationKind]domain.EvaluatorState, len(r.evaluators))
	for k, e := range r.evaluators {
		states[k] = e.State()
	}
	return states
}
