package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

func Test_bodyHash(t *testing.T) {
	data := []byte("hello world")
	sum := sha256.Sum256(data)
	if got, want := bodyHash(data), hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("bodyHash = %s, want %s", got, want)
	}
}

func Test_buildKey(t *testing.T) {
	k := buildKey("PUT", "/api/approve-loan/:id", "bank1", strings.Repeat("a", 32))
	if want := "idemp:put:/api/approve-loan/:id:bank1:" + strings.Repeat("a", 32); k != want {
		t.Fatalf("buildKey = %q, want %q", k, want)
	}
}

func Test_validKey(t *testing.T) {
	for _, s := range []string{
		"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88",
		strings.Repeat("a", 32),
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88",
	} {
		if !validKey(s) {
			t.Fatalf("validKey should accept %q", s)
		}
	}
	for _, s := range []string{
		"",
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",
		"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
		"3F9A6A1B-3D54-4FBE-8B3A-6B3E8D6B2C88",
		"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88",
		"{3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88}",
	} {
		if validKey(s) {
			t.Fatalf("validKey should reject %q", s)
		}
	}
}

func Test_parseRequestAt(t *testing.T) {
	sec := time.Now().UTC().Unix()
	ms := time.Now().UTC().UnixMilli()
	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: strconv.FormatInt(sec, 10), want: time.Unix(sec, 0).UTC()},
		{raw: strconv.FormatInt(ms, 10), want: time.UnixMilli(ms).UTC()},
		{raw: "2025-09-05T10:00:00+07:00", want: time.Date(2025, 9, 5, 3, 0, 0, 0, time.UTC)},
		{raw: "2025-09-05T03:00:00.5Z", want: time.Date(2025, 9, 5, 3, 0, 0, 500000000, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseRequestAt(tt.raw)
		if err != nil || !got.Equal(tt.want) {
			t.Fatalf("parseRequestAt(%q) = %v, %v; want %v", tt.raw, got, err, tt.want)
		}
	}
	for _, raw := range []string{"", "not-a-time", "2025-09-05T10:00:00", "1736123456abc"} {
		if _, err := parseRequestAt(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func Test_reserve_load_complete_release(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	ctx := context.Background()
	key := buildKey("POST", "/api/save-loan", "cust1", strings.Repeat("a", 32))

	e := entry{InProgress: true, BodySHA256: bodyHash([]byte(`{"a":1}`)), CreatedAt: nowUTC()}
	if ok, err := reserve(ctx, rdb, key, e); err != nil || !ok {
		t.Fatalf("reserve 1: ok=%v err=%v", ok, err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > provisionalLockTTL {
		t.Fatalf("reservation TTL = %v", ttl)
	}
	if ok, err := reserve(ctx, rdb, key, e); err != nil || ok {
		t.Fatalf("reserve 2: ok=%v err=%v", ok, err)
	}
	got, err := load(ctx, rdb, key)
	if err != nil || !got.InProgress || got.BodySHA256 != e.BodySHA256 {
		t.Fatalf("load = %+v, %v", got, err)
	}

	final := entry{Code: 201, Body: []byte(`{"ok":true}`), BodySHA256: e.BodySHA256}
	if err := complete(ctx, rdb, key, final, 5*time.Second); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > 5*time.Second {
		t.Fatalf("final TTL = %v", ttl)
	}
	got, _ = load(ctx, rdb, key)
	if got.InProgress || got.Code != 201 || string(got.Body) != `{"ok":true}` {
		t.Fatalf("final = %+v", got)
	}

	if err := release(ctx, rdb, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("key still present after release")
	}
}
