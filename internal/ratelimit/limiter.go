// Package ratelimit caps how many quiz generations a user may start per window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:generate:"

type Limiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

type counterFunc func(ctx context.Context, key string, window time.Duration) (int64, error)

type fixedWindow struct {
	incr   counterFunc
	limit  int64
	window time.Duration
}

// NewRedisLimiter allows limit calls per user in each fixed window.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) Limiter {
	return &fixedWindow{
		incr:   redisCounter(client),
		limit:  int64(limit),
		window: window,
	}
}

func redisCounter(client *redis.Client) counterFunc {
	return func(ctx context.Context, key string, window time.Duration) (int64, error) {
		n, err := client.Incr(ctx, key).Result()
		if err != nil {
			return 0, err
		}
		if n == 1 {
			if err := client.Expire(ctx, key, window).Err(); err != nil {
				return n, err
			}
		}
		return n, nil
	}
}

func (l *fixedWindow) Allow(ctx context.Context, userID string) (bool, error) {
	n, err := l.incr(ctx, keyPrefix+userID, l.window)
	if err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return n <= l.limit, nil
}

type noop struct{}

// NewNoop returns a limiter that allows everything.
func NewNoop() Limiter { return noop{} }

func (noop) Allow(context.Context, string) (bool, error) { return true, nil }

// Connect returns a redis client after checking the server answers.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
