package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/DocLens-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
)

// bucket is a token bucket refilled continuously at the configured rate.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// ipLimiter applies a per-client-IP token bucket.
type ipLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rps     float64
	burst   float64
}

func newIPLimiter(rps int) *ipLimiter {
	l := &ipLimiter{
		buckets: make(map[string]*bucket),
		rps:     float64(rps),
		burst:   float64(rps * 2),
	}
	go l.cleanupLoop()
	return l
}

func (l *ipLimiter) allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, lastSeen: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * l.rps
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// cleanupLoop drops buckets idle long enough to be full again.
func (l *ipLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-10 * time.Minute)
		l.mu.Lock()
		for key, b := range l.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit rejects clients exceeding rps sustained requests per second
// (burst of twice that).  rps <= 0 disables limiting.
func RateLimit(rps int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newIPLimiter(rps)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, handlers.ErrorResponse{
				Code:    errors.CodeRateLimit.String(),
				Message: "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
