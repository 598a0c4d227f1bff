package domain

import (
	"time"
)

type EvaluationKind string

const (
	KindToxicity      EvaluationKind = "toxicity"
	KindPII           EvaluationKind = "pii"
	KindBias          EvaluationKind = "bias"
	KindHallucination EvaluationKind = "hallucination"
)

// AllKinds lists every built-in evaluation kind.
func AllKinds() []EvaluationKind {
	return []EvaluationKind{KindToxicity, KindPII, KindBias, KindHallucination}
}

func ParseKind(s string) (EvaluationKind, bool) {
	switch EvaluationKind(s) {
	case KindToxicity, KindPII, KindBias, KindHallucination:
		return EvaluationKind(s), true
	}
	return "", false
}

type EvaluatorState string

const (
	StateUninitialized EvaluatorState = "not_loaded"
	StateInitializing  EvaluatorState = "loading"
	StateReady         EvaluatorState = "ready"
)

// Outcome is the result of running one evaluator against one text.
// A non-empty Error marks the outcome as degraded; a degraded outcome
// still carries a zero score so the aggregate can always be computed.
type Outcome struct {
	Kind    EvaluationKind         `json:"evaluation_type"`
	Score   float64                `json:"score"`
	Details map[string]interface{} `json:"details,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Degraded builds the outcome the dispatcher substitutes when an
// evaluator faults.
func Degraded(kind EvaluationKind, errMsg string) Outcome {
	return Outcome{Kind: kind, Score: 0.0, Error: errMsg}
}

type AggregateResult struct {
	SafetyScore float64                    `json:"safety_score"`
	Text        string                     `json:"text"`
	Context     string                     `json:"context,omitempty"`
	Evaluations map[EvaluationKind]Outcome `json:"evaluations"`
}

type EvaluationRequest struct {
	Text        string   `json:"text" binding:"required"`
	Context     string   `json:"context,omitempty"`
	Evaluations []string `json:"evaluations,omitempty"`
}

// Kinds maps the request's evaluation names onto known kinds. Unknown
// names are dropped, same as requesting a kind that is not registered.
func (r *EvaluationRequest) Kinds() []EvaluationKind {
	var kinds []EvaluationKind
	for _, s := range r.Evaluations {
		if k, ok := ParseKind(s); ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// EvaluationJob is the queued form of an evaluation request, consumed
// by the background worker.
type EvaluationJob struct {
	ID          string    `json:"job_id"`
	Text        string    `json:"text"`
	Context     string    `json:"context,omitempty"`
	Evaluations []string  `json:"evaluations,omitempty"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

func (j *EvaluationJob) Request() *EvaluationRequest {
	return &EvaluationRequest{Text: j.Text, Context: j.Context, Evaluations: j.Evaluations}
}

// StoredResult is one persisted evaluation_results row. Per-kind rows
// carry the raw 0-1 score; the aggregate row uses type "safety" and
// carries the 0-100 safety score.
type StoredResult struct {
	ID             string                 `json:"id"`
	JobID          string                 `json:"job_id,omitempty"`
	Text           string                 `json:"text"`
	Context        string                 `json:"context,omitempty"`
	EvaluationType string                 `json:"evaluation_type"`
	Score          float64                `json:"score"`
	Details        map[string]interface{} `json:"details,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

const AggregateResultType = "safety"

type ResultsQueryRequest struct {
	JobID          string `form:"job_id"`
	EvaluationType string `form:"type"`
	Limit          int    `form:"limit"`
	Offset         int    `form:"offset"`
}

func (r *ResultsQueryRequest) SetDefaults() {
	if r.Limit <= 0 || r.Limit > 500 {
		r.Limit = 50
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

type ResultsQueryResponse struct {
	Results []StoredResult `json:"results"`
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	HasMore bool           `json:"has_more"`
}
