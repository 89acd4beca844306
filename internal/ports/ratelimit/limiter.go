package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single admission check. RetryAfter is a hint
// for rejected attempts; zero means no recommendation.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits or rejects one action for a key. Check and increment are
// atomic from the caller's point of view: exactly one call per creation
// attempt, and a rejected attempt consumes no capacity.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
