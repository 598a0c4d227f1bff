package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/queue"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/service"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/storage"
)

type EvaluationHandler struct {
	svc   *service.Service
	repo  *storage.ResultRepo
	queue *queue.RedisQueue
	log   *zap.Logger
}

func NewEvaluationHandler(svc *service.Service, repo *storage.ResultRepo, q *queue.RedisQueue, log *zap.Logger) *EvaluationHandler {
	return &EvaluationHandler{svc: svc, repo: repo, queue: q, log: log}
}

// Evaluate runs the requested safety checks synchronously and returns
// the aggregate result. Per-kind failures come back as degraded
// outcomes inside the response, never as a request-level error.
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	var req domain.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result, err := h.svc.Evaluate(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("evaluation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an error occurred during evaluation"})
		return
	}

	// Persistence is best-effort on the sync path.
	if h.repo != nil {
		if err := h.repo.SaveAggregate(c.Request.Context(), "", result); err != nil {
			h.log.Warn("failed to persist evaluation result", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, result)
}

// EvaluateAsync enqueues the request for the background worker and
// returns the job ID for later result lookup.
func (h *EvaluationHandler) EvaluateAsync(c *gin.Context) {
	var req domain.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	job := &domain.EvaluationJob{
		ID:          uuid.New().String(),
		Text:        req.Text,
		Context:     req.Context,
		Evaluations: req.Evaluations,
		EnqueuedAt:  time.Now(),
	}

	if err := h.queue.Publish(c.Request.Context(), job); err != nil {
		h.log.Error("failed to enqueue evaluation job", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID, "status": "queued"})
}

// Results returns stored evaluation results, filterable by job ID and
// evaluation type.
func (h *EvaluationHandler) Results(c *gin.Context) {
	var req domain.ResultsQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	resp, err := h.repo.Query(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("failed to query results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query results"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
