package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"robin/internal/bugstats"
	"robin/internal/bugzilla"
	"robin/internal/config"
	"robin/internal/database"
	internalHttp "robin/internal/http"
	"robin/internal/members"
	"robin/internal/queue"
	"robin/internal/redis"
	"robin/internal/report"
	"robin/internal/results"

	"github.com/joho/godotenv"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, using environment variables")
	}

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	arches, err := config.LoadArchitectures(cfg.Report.ArchitecturesFile)
	if err != nil {
		fatal("failed to load architectures", err)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		fatal("failed to migrate database", err)
	}

	// Redis is optional: without it summaries stay in process and no queue is exposed
	var (
		store     results.Store = results.NewMemoryStore(results.DefaultMemoryCapacity)
		publisher queue.IPublisher
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg.Redis)
		if err != nil {
			fatal("failed to connect to redis", err)
		}
		defer redisClient.Close()
		store = results.NewRedisStore(redisClient, cfg.Redis.ResultTTL)
		publisher = queue.NewPublisher(redisClient, cfg.Redis.QueueName)
	}

	resolver := members.NewResolver(db)
	builder := bugzilla.NewBuilder(cfg.Bugzilla)
	aggregator := bugstats.NewAggregator(db, builder, arches, cfg.Bugzilla, cfg.Report)

	h := internalHttp.NewHandler(cfg.HTTP, internalHttp.Services{
		Catalog:   db,
		Resolver:  resolver,
		Reports:   report.NewAssembler(db, resolver),
		Bugs:      bugstats.NewReporter(aggregator, db, arches, cfg.Report),
		Results:   store,
		Publisher: publisher,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server stopped", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
