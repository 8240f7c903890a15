package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"robin/internal/redis"
)

// popTimeout bounds one blocking pop so workers notice Stop
const popTimeout = 5 * time.Second

// Consumer handles consuming jobs from Redis
type Consumer struct {
	queue       *Queue
	handler     JobHandler // Interface to process jobs
	concurrency int        // Number of goroutines
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// JobHandler processes one job
type JobHandler interface {
	HandleJob(ctx context.Context, job *Job) error
}

// NewConsumer creates a consumer
func NewConsumer(
	redisClient *redis.Client,
	queueName string,
	handler JobHandler,
	concurrency int,
) *Consumer {
	return &Consumer{
		queue:       NewQueue(redisClient, queueName),
		handler:     handler,
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start begins consuming jobs (runs goroutines)
func (c *Consumer) Start(ctx context.Context) error {
	if c.concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	slog.Info("starting consumer", "workers", c.concurrency)

	for i := 0; i < c.concurrency; i++ {
		c.wg.Add(1)
		go c.worker(ctx, i)
	}

	return nil
}

// worker is a goroutine that processes jobs from the queue
func (c *Consumer) worker(ctx context.Context, id int) {
	defer c.wg.Done()

	logger := slog.With("worker", id)
	logger.Info("worker started")

	for {
		select {
		case <-c.stopChan:
			logger.Info("worker stopping")
			return
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		default:
			job, err := c.queue.Pop(ctx, popTimeout)
			if err != nil {
				// Timeout or empty queue - continue polling
				if errors.Is(err, redis.Nil) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
					continue
				}
				logger.Error("failed to pop job", "error", err)
				continue
			}

			if job == nil {
				continue
			}

			c.process(ctx, logger, job)
		}
	}
}

func (c *Consumer) process(ctx context.Context, logger *slog.Logger, job *Job) {
	logger = logger.With("job", job.ID, "type", job.Type)
	logger.Info("processing job")

	start := time.Now()
	err := c.handler.HandleJob(ctx, job)
	if err == nil {
		logger.Info("completed job", "duration", time.Since(start))
		return
	}

	logger.Error("failed to handle job", "error", err, "retries", job.Retries)
	if !job.CanRetry() {
		return
	}
	job.Retries++
	if err := c.queue.Push(ctx, job); err != nil {
		logger.Error("failed to requeue job", "error", err)
	}
}

// Stop gracefully stops the consumer
func (c *Consumer) Stop() {
	slog.Info("stopping consumer")
	close(c.stopChan)
	c.wg.Wait()
	slog.Info("consumer stopped")
}
