package sim

import (
	"context"
	"sync"
	"time"
)

// Stepper is anything advanced by elapsed time.
type Stepper interface {
	Step(dt time.Duration)
}

// Loop drives a Stepper from a ticker on its own goroutine. All access to the
// stepper must go through Do so ticks and callers never interleave.
type Loop struct {
	mu       sync.Mutex
	stepper  Stepper
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewLoop creates a stopped loop.
func NewLoop(s Stepper, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &Loop{stepper: s, interval: interval}
}

// Start launches the ticking goroutine. It stops when ctx is cancelled or
// Close is called.
func (l *Loop) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})

	go func() {
		defer close(l.done)
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		last := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				dt := now.Sub(last)
				last = now
				// a stalled process should not replay minutes of animation
				if dt > 10*l.interval {
					dt = 10 * l.interval
				}
				l.mu.Lock()
				l.stepper.Step(dt)
				l.mu.Unlock()
			}
		}
	}()
}

// Do runs fn while holding the loop lock.
func (l *Loop) Do(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

// Close stops the goroutine and waits for it to exit. Safe to call more than once.
func (l *Loop) Close() {
	l.once.Do(func() {
		if l.cancel == nil {
			return
		}
		l.cancel()
		<-l.done
	})
}
