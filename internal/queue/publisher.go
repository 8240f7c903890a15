package queue

import (
	"context"
	"fmt"
	"time"

	"robin/internal/redis"

	"github.com/google/uuid"
)

// IPublisher defines the interface for publishing jobs to the queue
type IPublisher interface {
	PublishRefreshJob(ctx context.Context, jobType JobType) error
	GetQueueLength(ctx context.Context) (int64, error)
}

type publisherImpl struct {
	queue *Queue
}

// NewPublisher creates a publisher
func NewPublisher(redisClient *redis.Client, queueName string) IPublisher {
	return &publisherImpl{
		queue: NewQueue(redisClient, queueName),
	}
}

// NewRefreshJob builds a snapshot refresh job of the given type
func NewRefreshJob(jobType JobType) *Job {
	return &Job{
		ID:         uuid.New().String(),
		Type:       jobType,
		Payload:    make(map[string]interface{}),
		CreatedAt:  time.Now(),
		Retries:    0,
		MaxRetries: 3,
	}
}

// PublishRefreshJob queues a snapshot refresh
func (p *publisherImpl) PublishRefreshJob(ctx context.Context, jobType JobType) error {
	if err := p.queue.Push(ctx, NewRefreshJob(jobType)); err != nil {
		return fmt.Errorf("failed to publish %s job: %w", jobType, err)
	}
	return nil
}

// GetQueueLength returns current queue size
func (p *publisherImpl) GetQueueLength(ctx context.Context) (int64, error) {
	length, err := p.queue.Length(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}
