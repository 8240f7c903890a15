package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"robin/internal/bugzilla"
	"robin/internal/config"
	"robin/internal/database"
	"robin/internal/queue"
	"robin/internal/redis"
	"robin/internal/worker"

	"github.com/joho/godotenv"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, using environment variables")
	}

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	arches, err := config.LoadArchitectures(cfg.Report.ArchitecturesFile)
	if err != nil {
		fatal("failed to load architectures", err)
	}

	slog.Info("connecting to database")
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		fatal("failed to migrate database", err)
	}

	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		fatal("failed to connect to redis", err)
	}
	defer redisClient.Close()

	client := bugzilla.NewClient(cfg.Bugzilla, bugzilla.NewBuilder(cfg.Bugzilla))
	handler := worker.NewJobHandler(db, client, db, arches)

	consumer := queue.NewConsumer(
		redisClient,
		cfg.Redis.QueueName,
		handler,
		cfg.Worker.Concurrency,
	)

	if err := consumer.Start(ctx); err != nil {
		fatal("failed to start consumer", err)
	}

	publisher := queue.NewPublisher(redisClient, cfg.Redis.QueueName)
	go schedule(ctx, publisher, cfg.Worker.PollInterval)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker")
	cancel()
	consumer.Stop()

	slog.Info("worker exited")
}

// schedule queues a refresh of both snapshots right away and then every interval
func schedule(ctx context.Context, publisher queue.IPublisher, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, jobType := range queue.RefreshJobTypes {
			if err := publisher.PublishRefreshJob(ctx, jobType); err != nil {
				slog.Error("failed to schedule refresh", "type", jobType, "error", err)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
