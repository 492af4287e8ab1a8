package middleware

import (
	"sync"
	"time"
)

// RateLimiter caps requests per client per minute
type RateLimiter struct {
	// Maximum requests per minute per IP
	ratePerMinute int
	// Map to track request counts and timestamps
	clients   map[string]*clientLimit
	lastSweep time.Time
	now       func() time.Time
	mu        sync.Mutex
}

type clientLimit struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a new rate limiter. A rate of zero or less
// returns nil, which allows everything.
func NewRateLimiter(ratePerMinute int) *RateLimiter {
	if ratePerMinute <= 0 {
		return nil
	}
	return &RateLimiter{
		ratePerMinute: ratePerMinute,
		clients:       make(map[string]*clientLimit),
		now:           time.Now,
	}
}

// Allow records a request from ip and reports whether it is within the limit
func (rl *RateLimiter) Allow(ip string) bool {
	if rl == nil {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	// Drop records idle for two minutes, at most once a minute
	if now.Sub(rl.lastSweep) > time.Minute {
		for key, client := range rl.clients {
			if now.Sub(client.windowStart) > 2*time.Minute {
				delete(rl.clients, key)
			}
		}
		rl.lastSweep = now
	}

	client, exists := rl.clients[ip]
	if !exists || now.Sub(client.windowStart) > time.Minute {
		client = &clientLimit{windowStart: now}
		rl.clients[ip] = client
	}

	client.count++
	return client.count <= rl.ratePerMinute
}
