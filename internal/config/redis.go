package config

import "time"

type RedisConfig struct {
	Enabled   bool
	Address   string
	Username  string
	Password  string
	DB        int
	UseTLS    bool
	QueueName string
	// ResultTTL bounds how long a computed bug summary stays exportable
	ResultTTL time.Duration
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:   getEnvBool("REDIS_ENABLED", true),
		Address:   getEnv("REDIS_ADDR", "localhost:6379"),
		Username:  getEnv("REDIS_USERNAME", ""),
		Password:  getEnv("REDIS_PASSWORD", ""),
		DB:        getEnvInt("REDIS_DB", 0),
		UseTLS:    getEnvBool("REDIS_USE_TLS", false),
		QueueName: getEnv("REDIS_QUEUE_NAME", "robin_jobs"),
		ResultTTL: getEnvDuration("REDIS_RESULT_TTL", 24*time.Hour),
	}
}
