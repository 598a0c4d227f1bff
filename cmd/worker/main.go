package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/config"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/evaluator"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/inference"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/queue"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/service"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/storage"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
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

	client := inference.NewClient(cfg.Inference.BaseURL, cfg.Inference.Token, cfg.Inference.Timeout)

	registry, err := evaluator.NewRegistry(
		evaluator.NewToxicityEvaluator(client, cfg.Inference.ToxicityModel, cfg.Inference.OpenAIAPIKey, logger),
		evaluator.NewPIIEvaluator(client, cfg.Inference.PIIModel, logger),
		evaluator.NewBiasEvaluator(client, cfg.Inference.BiasModel, logger),
		evaluator.NewHallucinationEvaluator(client, cfg.Inference.HallucinationModel, logger),
	)
	if err != nil {
		logger.Fatal("failed to build evaluator registry", zap.Error(err))
	}

	svc := service.New(registry, evaluator.DefaultWeights(), logger)
	repo := storage.NewResultRepo(db)

	w := worker.New(q, svc, repo, cfg.Worker.Concurrency, cfg.Worker.BatchSize, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker")
		cancel()
	}()

	logger.Info("worker starting")
	if err := w.Start(ctx); err != nil {
		logger.Fatal("worker error", zap.Error(err))
	}

	logger.Info("worker stopped")
}
