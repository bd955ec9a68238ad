// Package lock provides the cross-instance ledger lock on Redis.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"

	"loanapp-backend/internal/domain/repayment"
)

const (
	retryInterval = 100 * time.Millisecond
	maxRetries    = 20
)

// RedisLocker implements the repayment usecase's Locker with redislock.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	log    logrus.FieldLogger
}

func NewRedisLocker(c *redislock.Client, ttl time.Duration, log logrus.FieldLogger) *RedisLocker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RedisLocker{client: c, ttl: ttl, log: log}
}

// Lock retries briefly, then reports repayment.ErrLedgerBusy.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lk, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), maxRetries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, repayment.ErrLedgerBusy
	}
	if err != nil {
		return nil, err
	}
	return func() {
		if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.WithError(err).WithField("key", key).Warn("ledger lock release failed")
		}
	}, nil
}
