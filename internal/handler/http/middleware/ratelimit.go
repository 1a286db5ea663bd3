// Package middleware holds the cross-cutting HTTP concerns: rate limiting,
// request logging, and bearer-token authentication.
package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/webitel/timecapsule/internal/handler/http/httperr"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
)

// RateLimiter applies a per-client-IP token bucket, the same sliding-window
// intent as the donor's in-memory middleware but backed by
// golang.org/x/time/rate instead of a hand-rolled timestamp slice, and with
// periodic eviction of idle buckets so memory does not grow unbounded.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
}

type bucket struct {
	limiter    *rate.Limiter
	lastSeenAt time.Time
}

// NewRateLimiter builds a limiter allowing ratePerMinute requests per
// minute per client IP, with bursts up to burst.
func NewRateLimiter(ratePerMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rps:     rate.Limit(float64(ratePerMinute) / 60.0),
		burst:   burst,
		idleTTL: 5 * time.Minute,
	}
	go rl.evictLoop()
	return rl
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for ip, b := range rl.buckets {
			if time.Since(b.lastSeenAt) > rl.idleTTL {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.buckets[ip] = b
	}
	b.lastSeenAt = time.Now()
	rl.mu.Unlock()
	return b.limiter.Allow()
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Handler returns the net/http middleware enforcing the per-IP limit.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			httperr.Write(w, domainerr.RateLimited("too many requests, try again shortly"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
