package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/verdeo/auth-service/application/port/outbound"
)

// RedisLimiter is a fixed-window attempt counter backed by Redis. Keys expire
// on their own once the window passes.
type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(redisURL string) (*RedisLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisLimiter{client: client}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment attempt counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set attempt window: %w", err)
		}
	}
	return count <= int64(limit), nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

// NoopLimiter allows everything; used when rate limiting is disabled.
type NoopLimiter struct{}

func NewNoopLimiter() *NoopLimiter { return &NoopLimiter{} }

func (NoopLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return true, nil
}

func (NoopLimiter) Reset(context.Context, string) error { return nil }

var (
	_ outbound.RateLimiter = (*RedisLimiter)(nil)
	_ outbound.RateLimiter = NoopLimiter{}
)
