package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window in-memory limiter keyed by client IP.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

type visitor struct {
	windowStart time.Time
	count       int
}

// NewRateLimiter allows limit requests per client per window. Call Close to
// stop the cleanup goroutine.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, v := range rl.visitors {
		if now.Sub(v.windowStart) > rl.window {
			delete(rl.visitors, ip)
		}
	}
}

// Allow counts one request from key and reports whether it is within the
// limit, and if not how long until the window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, exists := rl.visitors[key]
	if !exists || now.Sub(v.windowStart) > rl.window {
		rl.visitors[key] = &visitor{windowStart: now, count: 1}
		return true, 0
	}
	v.count++
	if v.count > rl.limit {
		return false, rl.window - now.Sub(v.windowStart)
	}
	return true, 0
}

// Limit is the gin middleware. Rejected requests get 429 with Retry-After.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retry := rl.Allow(c.ClientIP())
		if !ok {
			seconds := int(retry.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// Close stops the cleanup goroutine.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}
