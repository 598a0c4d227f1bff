package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/domain"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/service"
)

type HealthHandler struct {
	svc *service.Service
}

func NewHealthHandler(svc *service.Service) *HealthHandler {
	return &HealthHandler{svc: svc}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Models reports the load state of every registered evaluator model.
func (h *HealthHandler) Models(c *gin.Context) {
	states := h.svc.Health()

	modelStatus := make(map[string]string, len(states))
	allReady := true
	for kind, state := range states {
		modelStatus[string(kind)] = statusLabel(state)
		if state != domain.StateReady {
			allReady = false
		}
	}

	status := "healthy"
	if !allReady {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"model_status": modelStatus,
	})
}

func statusLabel(state domain.EvaluatorState) string {
	switch state {
	case domain.StateReady:
		return "loaded"
	case domain.StateInitializing:
		return "loading"
	default:
		return "not loaded"
	}
}
