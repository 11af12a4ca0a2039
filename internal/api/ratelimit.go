// Rate limiter for the trade endpoint. In-memory sliding window per caller.

package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter allows maxRate requests per window per caller key.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	maxRate int
	span    time.Duration
}

type window struct {
	count   int
	started time.Time
}

// NewRateLimiter creates a limiter allowing maxRate requests per span.
func NewRateLimiter(maxRate int, span time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		maxRate: maxRate,
		span:    span,
	}
}

// Allow records a request for key and reports whether it is within limits.
// Stale windows are pruned opportunistically.
func (rl *RateLimiter) Allow(key string) (ok bool, retryAfter int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for k, w := range rl.windows {
		if now.Sub(w.started) > 2*rl.span {
			delete(rl.windows, k)
		}
	}

	w, exists := rl.windows[key]
	if !exists || now.Sub(w.started) >= rl.span {
		rl.windows[key] = &window{count: 1, started: now}
		return true, 0
	}

	if w.count < rl.maxRate {
		w.count++
		return true, 0
	}

	remaining := rl.span - now.Sub(w.started)
	return false, int(remaining.Seconds()) + 1
}

// limit wraps a handler with per-IP rate limiting, answering 429 when
// exceeded.
func limit(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(key); err == nil {
			key = host
		}
		ok, retry := rl.Allow(key)
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
