package config

import (
	"time"
)

type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
}

func loadWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Concurrency:  getEnvInt("WORKER_CONCURRENCY", 1),
		PollInterval: getEnvDuration("POLL_INTERVAL", 6*time.Hour),
	}
}
