package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ClientRateLimiter is a coarse per-client token bucket in front of the
// whole API. It is independent of the per-author sliding window guarding
// post creation: this one protects the process, that one enforces product
// policy.
type ClientRateLimiter struct {
	limit           rate.Limit
	burst           int
	cleanupInterval time.Duration

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh chan struct{}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewClientRateLimiter(limit rate.Limit, burst int) *ClientRateLimiter {
	rl := &ClientRateLimiter{
		limit:           limit,
		burst:           burst,
		cleanupInterval: 5 * time.Minute,
		limiters:        make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the background cleanup goroutine.
func (rl *ClientRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *ClientRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			retryAfterSec := int(math.Ceil(1.0 / float64(rl.limit)))
			if retryAfterSec < 1 {
				retryAfterSec = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfterSec))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "RATE_LIMITED",
				"message": "too many requests, try again later",
			})
			return
		}
		c.Next()
	}
}

// Count reports the tracked client entries, for tests and debugging.
func (rl *ClientRateLimiter) Count() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *ClientRateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if cl, ok := rl.limiters[key]; ok {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[key] = &clientLimiter{limiter: limiter, lastAccess: time.Now()}
	return limiter
}

func (rl *ClientRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops entries idle for longer than twice the cleanup interval.
func (rl *ClientRateLimiter) cleanup() {
	ttl := rl.cleanupInterval * 2
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
}
