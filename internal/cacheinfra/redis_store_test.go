package cacheinfra

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// newRedisStore connects to the instance named by REDIS_ADDR, skipping the
// test when none is configured. These are integration tests; the unit suite
// covers the same contract through the in-process store.
func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping redis integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("pinging redis at %s: %v", addr, err)
	}
	return NewRedisStore(rdb, "cachetest:"+t.Name())
}

func TestRedisSetGetRoundTrip(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	data, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !ok || string(data) != "v" {
		t.Errorf("Get() = (%q, %v), want (\"v\", true)", data, ok)
	}

	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("entry survived removal")
	}
}

func TestRedisMissingKeyIsAMiss(t *testing.T) {
	store := newRedisStore(t)

	_, ok, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("absent key reported present")
	}
}

func TestRedisIncrBy(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()
	t.Cleanup(func() { _ = store.Remove(ctx, "version:clients") })

	n, err := store.IncrBy(ctx, "version:clients", 0, time.Hour)
	if err != nil {
		t.Fatalf("IncrBy() error: %v", err)
	}
	if n != 0 {
		t.Errorf("fresh counter = %d, want 0", n)
	}

	n, err = store.IncrBy(ctx, "version:clients", 2, time.Hour)
	if err != nil {
		t.Fatalf("IncrBy() error: %v", err)
	}
	if n != 2 {
		t.Errorf("counter = %d, want 2", n)
	}
}
