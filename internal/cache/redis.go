// Package cache provides the shared Redis connection used for per-user
// issuance locks and the appointment-created event stream.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The stream worker parks one connection in a blocking XREADGROUP; the
// rest of the pool serves lock SetNX/Del calls and publishes. PoolTimeout
// stays under the publisher's 500ms budget plus slack so a saturated pool
// fails the publish rather than stalling appointment creation.
const (
	poolSize        = 10
	minIdleConns    = 2
	poolTimeout     = 2 * time.Second
	connMaxIdleTime = 5 * time.Minute
)

// Cache wraps the Redis client shared by the locker, publisher, and worker.
type Cache struct {
	client *redis.Client
}

// New connects a Cache and verifies the connection.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse Redis URL: %w", err)
	}

	opt.PoolSize = poolSize
	opt.MinIdleConns = minIdleConns
	opt.PoolTimeout = poolTimeout
	opt.ConnMaxIdleTime = connMaxIdleTime

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping checks Redis connectivity for the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the raw client for the stream publisher and worker, which
// speak the stream commands directly.
func (c *Cache) Client() *redis.Client {
	return c.client
}
