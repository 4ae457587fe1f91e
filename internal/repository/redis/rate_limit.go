package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/port"
)

// RateLimitRepository counts attempts in fixed windows using Redis counters.
// Keys are bucketed by window so expiry handles cleanup.
type RateLimitRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRateLimitRepository constructs a repository using the provided client.
func NewRateLimitRepository(client *redis.Client, keyPrefix string) *RateLimitRepository {
	return &RateLimitRepository{client: client, keyPrefix: keyPrefix}
}

// Increment bumps the attempt counter for the identifier's current window
// and returns the new count. The key expires two windows after creation.
func (r *RateLimitRepository) Increment(ctx context.Context, identifier string, window time.Duration) (int64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("window must be positive")
	}

	bucket := time.Now().UnixNano() / int64(window)
	key := fmt.Sprintf("%s:%s:%d", r.keyPrefix, identifier, bucket)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}

	return incr.Val(), nil
}

var _ port.RateLimitStore = (*RateLimitRepository)(nil)
