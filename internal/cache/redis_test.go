package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis tests need a live server: set REDIS_ADDRESS (e.g. "localhost:6379").
// They use DB 15 and flush it first.

func newTestRedisCache(t *testing.T, ttl time.Duration) Cache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("Skipping Redis tests: set REDIS_ADDRESS to enable")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush test DB: %v", err)
	}
	_ = client.Close()

	c, err := New("redis", ProviderConfig{
		TTL:            ttl,
		RedisAddress:   addr,
		RedisDB:        15,
		RedisKeyPrefix: "rezka-test:",
	})
	if err != nil {
		t.Fatalf("New redis cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_Operations(t *testing.T) {
	c := newTestRedisCache(t, 10*time.Second)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss")
	}

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	if val, ok := c.Get("a"); !ok || string(val) != "1" {
		t.Fatalf("Get(a) = %q, %v", val, ok)
	}
	if !c.Contains("b") {
		t.Fatal("expected b to be contained")
	}
	if n := c.Len(); n != 2 {
		t.Fatalf("Len() = %d, want 2", n)
	}

	c.Delete("a")
	if c.Contains("a") {
		t.Fatal("a should be gone after Delete")
	}
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	c := newTestRedisCache(t, 100*time.Millisecond)

	c.Set("short", []byte("lived"))
	time.Sleep(300 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Fatal("expected key to expire")
	}
}
