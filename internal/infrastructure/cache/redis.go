// Package cache opens the Redis client shared by idempotency, ledger locks
// and notification fan-out.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const pingTimeout = 5 * time.Second

// OpenRedis connects and pings; the client is unusable if the ping fails.
func OpenRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  pingTimeout,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.Ping(pctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	logrus.WithFields(logrus.Fields{"module": "cache", "addr": addr, "db": db}).Info("redis: connected")
	return c, nil
}

// NewLocker shares the client's connection pool for distributed locks.
func NewLocker(c *redis.Client) *redislock.Client {
	return redislock.New(c)
}
