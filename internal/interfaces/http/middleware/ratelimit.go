package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lexatlas/lexatlas/pkg/errors"
)

// RateLimitConfig tunes the per-client token bucket.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained refill rate.
	RequestsPerSecond float64
	// Burst is the bucket capacity.
	Burst int
	// SkipPaths bypass limiting entirely, typically health and metrics.
	SkipPaths []string
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 50
	}
	if c.Burst <= 0 {
		c.Burst = 100
	}
	return c
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// limiter is an in-memory token bucket keyed by client IP.  Buckets idle
// past the expiry window are dropped on the fly during lookups.
type limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	burst   float64

	lastSweep time.Time
}

const bucketExpiry = 10 * time.Minute

func newLimiter(rate float64, burst int) *limiter {
	return &limiter{
		buckets:   make(map[string]*bucket),
		rate:      rate,
		burst:     float64(burst),
		lastSweep: time.Now(),
	}
}

// allow reports whether key may proceed and how many tokens remain.
func (l *limiter) allow(key string, now time.Time) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > bucketExpiry {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > bucketExpiry {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst}
		l.buckets[key] = b
	} else {
		b.tokens += now.Sub(b.lastSeen).Seconds() * l.rate
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false, 0
	}
	b.tokens--
	return true, int(b.tokens)
}

// RateLimit rejects clients exceeding the configured rate with 429 and the
// conventional X-RateLimit headers.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	cfg = cfg.withDefaults()
	l := newLimiter(cfg.RequestsPerSecond, cfg.Burst)
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	limitHeader := strconv.Itoa(cfg.Burst)

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		ok, remaining := l.allow(c.ClientIP(), time.Now())
		c.Header("X-RateLimit-Limit", limitHeader)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    string(errors.ErrCodeTooManyRequests),
				"message": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
