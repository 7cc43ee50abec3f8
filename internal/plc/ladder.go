package plc

import (
	"time"

	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

const rungInterval = time.Second

// Rung is one line of the scrolling ladder diagram.
type Rung struct {
	ID     int    `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Ladder energises one rung at a time while the program runs.
type Ladder struct {
	rungs []Rung
	timer sim.Timer
}

// NewLadder returns the five-rung start-up program, de-energised.
func NewLadder() *Ladder {
	labels := []string{"Start Button", "Safety Check", "Motor Control", "Process Timer", "Output Enable"}
	l := &Ladder{timer: sim.NewTimer(rungInterval)}
	for i, label := range labels {
		l.rungs = append(l.rungs, Rung{ID: i + 1, Label: label})
	}
	return l
}

// Energize lights the first rung.
func (l *Ladder) Energize() {
	l.clear()
	l.rungs[0].Active = true
	l.timer.Reset()
}

// Deenergize turns every rung off.
func (l *Ladder) Deenergize() {
	l.clear()
	l.timer.Reset()
}

// Step moves the active rung forward once per second, wrapping around.
func (l *Ladder) Step(dt time.Duration) {
	for n := l.timer.Advance(dt); n > 0; n-- {
		active := l.Active()
		if active >= 0 {
			l.rungs[active].Active = false
		}
		l.rungs[(active+1)%len(l.rungs)].Active = true
	}
}

// Active is the index of the energised rung, or -1.
func (l *Ladder) Active() int {
	for i, r := range l.rungs {
		if r.Active {
			return i
		}
	}
	return -1
}

// Rungs returns a copy of the rungs.
func (l *Ladder) Rungs() []Rung {
	out := make([]Rung, len(l.rungs))
	copy(out, l.rungs)
	return out
}

func (l *Ladder) clear() {
	for i := range l.rungs {
		l.rungs[i].Active = false
	}
}
