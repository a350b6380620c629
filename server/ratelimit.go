package server

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/drblury/specroute/responder"
)

var errRateLimited = responder.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	Rate  float64 // requests per second
	Burst int
	// KeyFunc picks the bucket for a request. Default: client IP.
	KeyFunc func(r *http.Request) string
	// Responder renders the 429 problem. Default: a new responder.
	Responder       *responder.Responder
	CleanupInterval time.Duration // default: 1m
	MaxIdle         time.Duration // default: 5m
}

// RateLimit returns middleware applying a token bucket per key. It suits
// registries that list it among their global middleware.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if cfg.Responder == nil {
		cfg.Responder = responder.NewResponder()
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = 5 * time.Minute
	}

	retryAfter := "1"
	if cfg.Rate > 0 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / cfg.Rate)))
	}

	var (
		mu          sync.Mutex
		limiters    = make(map[string]*limiterEntry)
		lastCleanup time.Time
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.KeyFunc(r)

			mu.Lock()
			now := time.Now()
			if now.Sub(lastCleanup) >= cfg.CleanupInterval {
				for k, e := range limiters {
					if now.Sub(e.lastSeen) > cfg.MaxIdle {
						delete(limiters, k)
					}
				}
				lastCleanup = now
			}
			entry, ok := limiters[key]
			if !ok {
				entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)}
				limiters[key] = entry
			}
			entry.lastSeen = now
			mu.Unlock()

			if !entry.limiter.Allow() {
				w.Header().Set("Retry-After", retryAfter)
				cfg.Responder.HandleErrors(w, r, errRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

