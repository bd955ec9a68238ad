package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bsm/redislock"
)

func TestOpenRedis(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	c, err := OpenRedis(ctx, s.Addr(), 3)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	if c.Options().DB != 3 {
		t.Fatalf("DB = %d, want 3", c.Options().DB)
	}
	if err := c.Set(ctx, "idemp:ping-check", "1", time.Minute).Err(); err != nil {
		t.Fatal(err)
	}
	s.Select(3)
	if !s.Exists("idemp:ping-check") {
		t.Fatal("key not written to selected DB")
	}

	if _, err := OpenRedis(ctx, "127.0.0.1:1", 0); err == nil {
		t.Fatal("expected ping failure")
	}
}

func TestNewLocker(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()
	c, err := OpenRedis(ctx, s.Addr(), 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })

	locker := NewLocker(c)
	if _, err := locker.Obtain(ctx, "ledger:loan-1", time.Minute, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := locker.Obtain(ctx, "ledger:loan-1", time.Minute, nil); !errors.Is(err, redislock.ErrNotObtained) {
		t.Fatalf("second Obtain err = %v", err)
	}
	if _, err := locker.Obtain(ctx, "ledger:loan-2", time.Minute, nil); err != nil {
		t.Fatalf("other loan blocked: %v", err)
	}

	s.FastForward(2 * time.Minute)
	if _, err := locker.Obtain(ctx, "ledger:loan-1", time.Minute, nil); err != nil {
		t.Fatalf("lock not expired: %v", err)
	}
}
