package redis

import (
	"context"
	"fmt"
	"time"

	ratelimitPort "chirp/internal/ports/ratelimit"

	"github.com/go-redis/redis/v8"
	"github.com/gofrs/uuid"
)

const keyPrefix = "ratelimit:post:"

// slidingWindowScript trims the window, counts it and records the new
// action in one atomic step. A rejected attempt records nothing.
// Returns {allowed, remaining, retry_after_ms}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call("ZREMRANGEBYSCORE", key, 0, now - window)
local count = redis.call("ZCARD", key)
if count >= limit then
  local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
  local retry = 0
  if oldest[2] then
    retry = tonumber(oldest[2]) + window - now
  end
  return {0, 0, retry}
end

redis.call("ZADD", key, now, member)
redis.call("PEXPIRE", key, window)
return {1, limit - count - 1, 0}
`)

// SlidingWindowLimiter admits at most Limit actions per key within a rolling
// Window, backed by a Redis ZSET of admission timestamps.
type SlidingWindowLimiter struct {
	Client redis.Scripter
	Limit  int
	Window time.Duration
}

func NewSlidingWindowLimiter(client *redis.Client, limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		Client: client,
		Limit:  limit,
		Window: window,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (ratelimitPort.Decision, error) {
	now := time.Now().UnixMilli()
	// member must be unique per attempt so same-millisecond admissions from
	// one author still count separately
	member := fmt.Sprintf("%d-%s", now, uuid.Must(uuid.NewV4()))

	res, err := slidingWindowScript.Run(ctx, l.Client,
		[]string{keyPrefix + key},
		now, l.Window.Milliseconds(), l.Limit, member,
	).Result()
	if err != nil {
		return ratelimitPort.Decision{}, err
	}
	return decisionFromScript(res)
}

func decisionFromScript(res interface{}) (ratelimitPort.Decision, error) {
	vals, ok := res.([]interface{})
	if !ok || len(vals) != 3 {
		return ratelimitPort.Decision{}, fmt.Errorf("unexpected rate limit script reply: %v", res)
	}
	allowed, ok1 := vals[0].(int64)
	remaining, ok2 := vals[1].(int64)
	retryMs, ok3 := vals[2].(int64)
	if !ok1 || !ok2 || !ok3 {
		return ratelimitPort.Decision{}, fmt.Errorf("unexpected rate limit script reply: %v", res)
	}
	if remaining < 0 {
		remaining = 0
	}
	if retryMs < 0 {
		retryMs = 0
	}
	return ratelimitPort.Decision{
		Allowed:    allowed == 1,
		Remaining:  int(remaining),
		RetryAfter: time.Duration(retryMs) * time.Millisecond,
	}, nil
}
