package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AOGbadamosi2018/AItext-evaluator/internal/queue"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/service"
	"github.com/AOGbadamosi2018/AItext-evaluator/internal/storage"
)

// Worker consumes queued evaluation jobs, evaluates them and persists
// the results, acking each message only after a successful store.
type Worker struct {
	queue       *queue.RedisQueue
	svc         *service.Service
	repo        *storage.ResultRepo
	concurrency int
	batchSize   int
	log         *zap.Logger
}

func New(q *queue.RedisQueue, svc *service.Service, repo *storage.ResultRepo, concurrency, batchSize int, log *zap.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Worker{
		queue:       q,
		svc:         svc,
		repo:        repo,
		concurrency: concurrency,
		batchSize:   batchSize,
		log:         log,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.log.Info("starting worker",
		zap.Int("concurrency", w.concurrency),
		zap.Int("batch_size", w.batchSize))

	jobs := make(chan queue.Message, w.concurrency*2)
	var wg sync.WaitGroup

	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processJobs(ctx, workerID, jobs)
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil
		default:
			messages, err := w.queue.Consume(ctx, int64(w.batchSize), 5*time.Second)
			if err != nil {
				if ctx.Err() != nil {
					close(jobs)
					wg.Wait()
					return nil
				}
				w.log.Error("failed to consume messages", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			for _, msg := range messages {
				select {
				case jobs <- msg:
				case <-ctx.Done():
					close(jobs)
					wg.Wait()
					return nil
				}
			}
		}
	}
}

func (w *Worker) processJobs(ctx context.Context, workerID int, jobs <-chan queue.Message) {
	for msg := range jobs {
		if err := w.processJob(ctx, msg); err != nil {
			w.log.Error("failed to process job",
				zap.Int("worker_id", workerID),
				zap.String("job_id", msg.Job.ID),
				zap.Error(err))
			continue
		}

		if err := w.queue.Ack(ctx, msg.ID); err != nil {
			w.log.Error("failed to ack message",
				zap.Int("worker_id", workerID),
				zap.String("message_id", msg.ID),
				zap.Error(err))
		}
	}
}

func (w *Worker) processJob(ctx context.Context, msg queue.Message) error {
	job := msg.Job
	w.log.Info("processing evaluation job", zap.String("job_id", job.ID))

	result, err := w.svc.Evaluate(ctx, job.Request())
	if err != nil {
		return err
	}

	if err := w.repo.SaveAggregate(ctx, job.ID, result); err != nil {
		return err
	}

	w.log.Info("completed evaluation job",
		zap.String("job_id", job.ID),
		zap.Float64("safety_score", result.SafetyScore),
		zap.Int("kinds", len(result.Evaluations)))

	return nil
}
