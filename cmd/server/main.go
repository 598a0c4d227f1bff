package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/api"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/config"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/evaluator"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/inference"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/queue"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/service"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := storage.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	q, err := queue.NewRedisQueue(&cfg.Redis, &cfg.Worker)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer q.Close()

	svc, err := buildService(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build evaluation service", zap.Error(err))
	}

	if cfg.Inference.EagerWarmup {
		logger.Info("warming up evaluator models")
		svc.Warmup(ctx)
	}

	repo := storage.NewResultRepo(db)
	router := api.NewRouter(svc, repo, q, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Server.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}

func buildService(cfg *config.Config, logger *zap.Logger) (*service.Service, error) {
	client := inference.NewClient(cfg.Inference.BaseURL, cfg.Inference.Token, cfg.Inference.Timeout)

	registry, err := evaluator.NewRegistry(
		evaluator.NewToxicityEvaluator(client, cfg.Inference.ToxicityModel, cfg.Inference.OpenAIAPIKey, logger),
		evaluator.NewPIIEvaluator(client, cfg.Inference.PIIModel, logger),
		evaluator.NewBiasEvaluator(client, cfg.Inference.BiasModel, logger),
		evaluator.NewHallucinationEvaluator(client, cfg.Inference.HallucinationModel, logger),
	)
	if err != nil {
		return nil, err
	}

	return service.New(registry, evaluator.DefaultWeights(), logger), nil
}

func newLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}

	zapCfg := zap.NewProductionConfig()
	if level, err := zap.ParseAtomicLevel(cfg.Level); err == nil {
		zapCfg.Level = level
	}
	return zapCfg.Build()
}
