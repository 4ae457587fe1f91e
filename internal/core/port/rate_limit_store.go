package port

import (
	"context"
	"time"
)

// RateLimitStore counts attempts inside a fixed window keyed by identifier.
type RateLimitStore interface {
	// Increment records an attempt and returns the attempt count within the
	// current window for the identifier.
	Increment(ctx context.Context, identifier string, window time.Duration) (int64, error)
}
