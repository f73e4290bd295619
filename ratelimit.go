package extract

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the RateLimit middleware.
type RateLimitConfig struct {
	Rate            float64             // dispatches per second
	Burst           int                 // max burst
	KeyFunc         func(*Parts) string // default: Parts.Remote
	CleanupInterval time.Duration       // how often to prune idle limiters (default: 1m)
	MaxIdle         time.Duration       // remove limiters idle longer than this (default: 5m)
}

// RateLimit returns middleware that applies per-key rate limiting. A
// rejected dispatch fails with ErrRateLimited before any extraction runs.
func RateLimit[S any](cfg RateLimitConfig) Middleware[S] {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(p *Parts) string { return p.Remote }
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	maxIdle := cfg.MaxIdle
	if maxIdle <= 0 {
		maxIdle = 5 * time.Minute
	}

	var (
		mu          sync.Mutex
		limiters    = make(map[string]*limiterEntry)
		lastCleanup time.Time
	)

	return func(next Dispatcher[S]) Dispatcher[S] {
		return func(req *Request, state S) (Response, error) {
			var key string
			if req != nil {
				key = cfg.KeyFunc(&req.Parts)
			}

			mu.Lock()
			now := time.Now()

			// Lazy cleanup of expired limiters.
			if now.Sub(lastCleanup) >= cleanupInterval {
				for k, e := range limiters {
					if now.Sub(e.lastSeen) > maxIdle {
						delete(limiters, k)
					}
				}
				lastCleanup = now
			}

			entry, ok := limiters[key]
			if !ok {
				entry = &limiterEntry{
					limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
				}
				limiters[key] = entry
			}
			entry.lastSeen = now
			mu.Unlock()

			if !entry.limiter.Allow() {
				return Response{}, fmt.Errorf("%w: key %q", ErrRateLimited, key)
			}

			return next(req, state)
		}
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}
