// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"oci-bom-generator/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client used by the shared catalog cache.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis builds a client for cfg. A zero PoolSize keeps the go-redis default.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	opts := &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
		opts.MinIdleConns = (cfg.PoolSize + 4) / 5
	}
	return &RedisClient{Client: redis.NewClient(opts)}, nil
}

func (c *RedisClient) Name() string { return "redis" }

func (c *RedisClient) Ping(ctx context.Context) error {
	start := time.Now()
	err := c.Client.Ping(ctx).Err()
	if err != nil {
		err = fmt.Errorf("redis ping failed: %w", err)
	}
	return observePing(c.Name(), start, err)
}

func (c *RedisClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
