package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"robin/internal/config"

	"github.com/redis/go-redis/v9"
)

// Nil is returned by reads of a missing key
const Nil = redis.Nil

// Client wraps the Redis client with application-specific methods
type Client struct {
	*redis.Client
}

// NewClient creates a new Redis client based on the configuration
func NewClient(cfg config.RedisConfig) (*Client, error) {
	opts := &redis.Options{
		Addr:       cfg.Address,
		Password:   cfg.Password,
		DB:         cfg.DB,
		Username:   cfg.Username,
		MaxRetries: 3,
	}

	// Redis Cloud requires TLS with SNI set to the host
	if cfg.UseTLS {
		host := strings.Split(cfg.Address, ":")[0]
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: host,
		}
	}
	slog.Info("connecting to redis", "address", cfg.Address, "tls", cfg.UseTLS)

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{Client: client}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.Client.Close()
}

// HealthCheck performs a health check on the Redis connection
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
