// Package ratelimit counts contact submissions per client in fixed windows.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether key may perform one more action.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Memory is an in-process fixed-window limiter.
type Memory struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]*window
}

type window struct {
	start time.Time
	count int
}

// NewMemory allows limit actions per key in each window.
func NewMemory(limit int, per time.Duration) *Memory {
	return &Memory{limit: limit, window: per, now: time.Now, windows: make(map[string]*window)}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || now.Sub(w.start) >= m.window {
		w = &window{start: now}
		m.windows[key] = w
	}
	if w.count >= m.limit {
		return false, nil
	}
	w.count++
	return true, nil
}

// Prune drops expired windows.
func (m *Memory) Prune() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, w := range m.windows {
		if now.Sub(w.start) >= m.window {
			delete(m.windows, k)
		}
	}
}
