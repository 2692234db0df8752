package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type cooldownEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Cooldown allows one action per key every interval. A zero interval turns
// it off.
type Cooldown struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[string]*cooldownEntry
	now      func() time.Time
}

func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{
		interval: interval,
		limiters: make(map[string]*cooldownEntry),
		now:      time.Now,
	}
}

// Allow consumes the key's token. When the key is still cooling down it
// returns false and the time left.
func (c *Cooldown) Allow(key string) (bool, time.Duration) {
	if c == nil || c.interval <= 0 {
		return true, 0
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.limiters[key]
	if !ok {
		e = &cooldownEntry{limiter: rate.NewLimiter(rate.Every(c.interval), 1)}
		c.limiters[key] = e
	}
	e.lastSeen = now

	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, c.interval
	}
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// Prune forgets keys idle for longer than the interval.
func (c *Cooldown) Prune() int {
	if c == nil {
		return 0
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.limiters {
		if now.Sub(e.lastSeen) > c.interval {
			delete(c.limiters, key)
			removed++
		}
	}
	return removed
}
