package outbound

import (
	"context"
	"time"
)

// RateLimiter throttles repeated attempts on a key (client IP during login).
// Allow both counts the attempt and reports whether it stays within limit.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Reset(ctx context.Context, key string) error
}
