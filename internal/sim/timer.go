// Package sim holds the timing primitives shared by the demo simulations.
//
// Simulations never read the wall clock. They are advanced with Step(dt) and
// use Timer and Countdown to turn elapsed time into the discrete ticks their
// animations are written against, so tests can drive them exactly.
package sim

import "time"

// Timer is a repeating interval. Advance reports how many whole intervals
// elapsed since the last call, carrying the remainder forward.
type Timer struct {
	Interval time.Duration
	acc      time.Duration
}

// NewTimer returns a timer firing every interval.
func NewTimer(interval time.Duration) Timer {
	return Timer{Interval: interval}
}

// Advance adds dt and returns the number of ticks that fired.
func (t *Timer) Advance(dt time.Duration) int {
	if t.Interval <= 0 || dt <= 0 {
		return 0
	}
	t.acc += dt
	n := int(t.acc / t.Interval)
	t.acc -= time.Duration(n) * t.Interval
	return n
}

// Reset drops any accumulated partial interval.
func (t *Timer) Reset() { t.acc = 0 }

// Countdown is a one-shot delay.
type Countdown struct {
	remaining time.Duration
	armed     bool
}

// Arm starts (or restarts) the countdown.
func (c *Countdown) Arm(d time.Duration) {
	c.remaining = d
	c.armed = true
}

// Disarm cancels a pending countdown.
func (c *Countdown) Disarm() {
	c.remaining = 0
	c.armed = false
}

// Armed reports whether the countdown is pending.
func (c *Countdown) Armed() bool { return c.armed }

// Remaining is the time left before the countdown fires.
func (c *Countdown) Remaining() time.Duration { return c.remaining }

// Advance reports true exactly once, on the call where the delay runs out.
func (c *Countdown) Advance(dt time.Duration) bool {
	if !c.armed {
		return false
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return false
	}
	c.Disarm()
	return true
}
