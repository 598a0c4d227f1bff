package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
)

var (
	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "text_evaluator_evaluations_total",
		Help: "Evaluator runs by kind and status.",
	}, []string{"kind", "status"})

	evaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "text_evaluator_evaluation_duration_seconds",
		Help:    "Per-evaluator latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	safetyScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "text_evaluator_safety_score",
		Help:    "Distribution of aggregate safety scores.",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})
)

func ObserveEvaluation(kind domain.EvaluationKind, status string, d time.Duration) {
	evaluationsTotal.WithLabelValues(string(kind), status).Inc()
	evaluationDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

func ObserveSafetyScore(score float64) {
	safetyScore.Observe(score)
}
