package cache

import (
	"context"
	"time"
)

const (
	// issuanceLockPrefix is the Redis key prefix for per-user issuance locks.
	issuanceLockPrefix = "lock:issuance:"
	// issuanceLockTTL bounds how long a crashed holder can block a user.
	issuanceLockTTL = 30 * time.Second
)

// issuanceLockKey builds the Redis key for a user's issuance lock.
func issuanceLockKey(userID string) string {
	return issuanceLockPrefix + userID
}

// AcquireIssuanceLock takes a short-lived per-user lock so that concurrent
// issuance entry points (on-demand, batch, scheduled) cannot race on the
// same user. Returns false when another invocation holds the lock.
func (c *Cache) AcquireIssuanceLock(ctx context.Context, userID string) (bool, error) {
	return c.client.SetNX(ctx, issuanceLockKey(userID), "1", issuanceLockTTL).Result()
}

// ReleaseIssuanceLock drops the per-user lock after issuance completes.
func (c *Cache) ReleaseIssuanceLock(ctx context.Context, userID string) error {
	return c.client.Del(ctx, issuanceLockKey(userID)).Err()
}
