package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/api/handler"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/queue"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/service"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/storage"
)

type Router struct {
	engine *gin.Engine
}

func NewRouter(svc *service.Service, repo *storage.ResultRepo, q *queue.RedisQueue, log *zap.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	evalHandler := handler.NewEvaluationHandler(svc, repo, q, log)
	healthHandler := handler.NewHealthHandler(svc)

	engine.GET("/health", healthHandler.Liveness)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/api/v1")
	{
		evaluations := v1.Group("/evaluations")
		{
			evaluations.POST("/evaluate", evalHandler.Evaluate)
			evaluations.POST("/async", evalHandler.EvaluateAsync)
			evaluations.GET("/results", evalHandler.Results)
			evaluations.GET("/health", healthHandler.Models)
		}
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
