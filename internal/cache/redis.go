package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "rezka:"
	redisDialTimeout = 5 * time.Second
	redisOpTimeout   = 2 * time.Second
	scanBatch        = 256
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache shares scraped pages between processes. Entries are plain string
// keys under a prefix that the server expires; Size and OnEvict do not apply.
type redisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger Logger
}

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis at %s unreachable: %w", cfg.RedisAddress, err)
	}

	c := &redisCache{rdb: rdb, ttl: cfg.TTL, prefix: cfg.RedisKeyPrefix, logger: cfg.Logger}
	if c.prefix == "" {
		c.prefix = defaultKeyPrefix
	}
	return c, nil
}

// run executes op with the per-operation timeout and reports failures other
// than a missing key.
func (r *redisCache) run(op string, fn func(ctx context.Context) error) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return true
	}
	if !errors.Is(err, redis.Nil) && r.logger != nil {
		r.logger.Error("redis cache "+op+" failed", err)
	}
	return false
}

func (r *redisCache) Get(key string) ([]byte, bool) {
	var value []byte
	ok := r.run("get", func(ctx context.Context) (err error) {
		value, err = r.rdb.Get(ctx, r.prefix+key).Bytes()
		return err
	})
	if !ok {
		return nil, false
	}
	return value, true
}

// Set stores value for the configured TTL; a zero TTL never expires.
func (r *redisCache) Set(key string, value []byte) {
	r.run("set", func(ctx context.Context) error {
		return r.rdb.Set(ctx, r.prefix+key, value, r.ttl).Err()
	})
}

func (r *redisCache) Delete(key string) {
	r.run("delete", func(ctx context.Context) error {
		return r.rdb.Del(ctx, r.prefix+key).Err()
	})
}

func (r *redisCache) Contains(key string) bool {
	var n int64
	ok := r.run("exists", func(ctx context.Context) (err error) {
		n, err = r.rdb.Exists(ctx, r.prefix+key).Result()
		return err
	})
	return ok && n > 0
}

// Len walks the prefix with SCAN, so it is only meant for metric scrapes.
func (r *redisCache) Len() int {
	count := 0
	ok := r.run("scan", func(ctx context.Context) error {
		iter := r.rdb.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
		for iter.Next(ctx) {
			count++
		}
		return iter.Err()
	})
	if !ok {
		return 0
	}
	return count
}

func (r *redisCache) Close() error {
	return r.rdb.Close()
}
