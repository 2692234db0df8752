// Package ratelimit counts requests per key over fixed windows and throttles
// repeated actions.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Counter records one hit for key and reports whether it is within limit
// for the current window.
type Counter interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

type Disabled struct{}

func (Disabled) Check(_ context.Context, _ string, limit int, _ time.Duration) (Result, error) {
	return Result{Allowed: true, Remaining: limit}, nil
}

type entry struct {
	count int
	reset time.Time
}

// MemoryCounter is a fixed-window counter held in process memory. The first
// hit opens the window; the count is dropped once the window has passed.
// State does not survive a restart and is not shared between instances.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (m *MemoryCounter) Check(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || !now.Before(e.reset) {
		m.entries[key] = &entry{count: 1, reset: now.Add(window)}
		return Result{Allowed: true, Remaining: max(limit-1, 0)}, nil
	}

	e.count++
	if e.count > limit {
		return Result{Allowed: false, RetryAfter: e.reset.Sub(now)}, nil
	}
	return Result{Allowed: true, Remaining: limit - e.count}, nil
}

// Cleanup drops every entry whose window ended before now.
func (m *MemoryCounter) Cleanup(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if !now.Before(e.reset) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (m *MemoryCounter) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Cleanup(m.now())
			}
		}
	}()
}

func (m *MemoryCounter) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
