package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 5 * time.Second

// Config selects the Redis instance backing Idempotency-Key replay.
type Config struct {
	Addr     string
	Password string
	DB       int
	// DialTimeout bounds the initial ping. Zero means dialTimeout.
	DialTimeout time.Duration
}

func (cfg Config) options() *redis.Options {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = dialTimeout
	}
	return &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: timeout,
	}
}

// Cache owns the Redis connection shared by the idempotency store and the
// readiness check.
type Cache struct {
	rdb *redis.Client
}

// Open connects to Redis and fails unless the server answers a ping within
// the dial timeout.
func Open(ctx context.Context, cfg Config) (*Cache, error) {
	opts := cfg.options()
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	return &Cache{rdb: rdb}, nil
}

// Idempotency returns the Idempotency-Key store on this connection.
func (c *Cache) Idempotency() *IdempotencyStore {
	return NewIdempotencyStore(c.rdb)
}

// Ping reports whether Redis is reachable. It has the readiness probe shape.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
