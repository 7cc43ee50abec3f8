package ratelimit

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// Redis is a fixed-window limiter shared by every server instance.
type Redis struct {
	client *backend.Client
	prefix string
	limit  int
	window time.Duration
}

type Option func(*Redis)

// WithPrefix sets the key prefix for counters.
func WithPrefix(prefix string) Option {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis connects to the server described by url (redis://...).
func NewRedis(url string, limit int, per time.Duration, opts ...Option) (*Redis, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisFromClient(backend.NewClient(o), limit, per, opts...), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *backend.Client, limit int, per time.Duration, opts ...Option) *Redis {
	r := &Redis{
		client: client,
		prefix: "portfolio:ratelimit:",
		limit:  limit,
		window: per,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

// Allow increments the counter for key; the first hit in a window sets its expiry.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := r.key(key)
	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", k, err)
	}
	if n == 1 {
		if err := r.client.Expire(ctx, k, r.window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", k, err)
		}
	}
	return n <= int64(r.limit), nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
