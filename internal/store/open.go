package store

import (
	"context"
	"fmt"
	"time"
)

// Cache is the response cache contract all backends satisfy.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// Options selects and configures a cache backend.
type Options struct {
	Backend       string // "file", "redis" or "memory"
	Dir           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open builds the configured backend. The returned close function releases
// any connection and is never nil.
func Open(ctx context.Context, opts Options) (Cache, func() error, error) {
	noop := func() error { return nil }

	switch opts.Backend {
	case "", "file":
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil
	case "redis":
		client, err := NewRedisClient(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisCache(client), client.Close, nil
	case "memory":
		return NewMemoryCache(0), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*FileCache)(nil)
	_ Cache = (*RedisCache)(nil)
)
