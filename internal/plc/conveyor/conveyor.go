// Package conveyor simulates the vision sorting line: parts with a random
// color, shape and size ride the main belt and are diverted at three forks
// into one of 27 terminal bins.
package conveyor

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

const (
	moveInterval = 100 * time.Millisecond

	// speedScale converts the HMI speed setting into progress per move tick.
	speedScale = 400.0

	// MaxParts bounds the parts in flight; spawns are skipped while full.
	MaxParts = 200

	DefaultSpeed          = 25
	DefaultPartsPerSecond = 1
	MaxPartsPerSecond     = 5
)

// Counts are the sorted totals.
type Counts struct {
	Bins    [Bins]int `json:"bins"`
	ByColor [3]int    `json:"by_color"`
	ByShape [3]int    `json:"by_shape"`
	BySize  [3]int    `json:"by_size"`
	Total   int       `json:"total"`
}

func (c *Counts) add(p Part) {
	c.Bins[p.Bin()]++
	c.ByColor[p.Color]++
	c.ByShape[p.Shape]++
	c.BySize[p.Size]++
	c.Total++
}

// Sorter is one conveyor line. It is not safe for concurrent use.
type Sorter struct {
	running        bool
	speed          float64
	partsPerSecond int

	parts  []Part
	nextID int
	counts Counts

	spawnTimer sim.Timer
	moveTimer  sim.Timer

	rng *rand.Rand
}

// New returns a stopped, empty sorter.
func New(rng *rand.Rand) *Sorter {
	s := &Sorter{
		speed: DefaultSpeed,
		rng:   rng,
	}
	s.SetPartsPerSecond(DefaultPartsPerSecond)
	s.moveTimer = sim.NewTimer(moveInterval)
	s.Reset()
	return s
}

// Start runs the belt.
func (s *Sorter) Start() error {
	s.running = true
	return nil
}

// Stop freezes parts where they are.
func (s *Sorter) Stop() { s.running = false }

// Running reports whether the belt is moving.
func (s *Sorter) Running() bool { return s.running }

// Reset clears parts, counters and the id sequence.
func (s *Sorter) Reset() {
	s.parts = nil
	s.counts = Counts{}
	s.nextID = 1
	s.spawnTimer.Reset()
	s.moveTimer.Reset()
}

// SetSpeed sets the belt speed; negative values stop motion.
func (s *Sorter) SetSpeed(v float64) { s.speed = math.Max(0, v) }

// SetPartsPerSecond sets the spawn rate, clamped to [1, MaxPartsPerSecond].
func (s *Sorter) SetPartsPerSecond(n int) {
	s.partsPerSecond = max(1, min(MaxPartsPerSecond, n))
	s.spawnTimer = sim.NewTimer(time.Second / time.Duration(s.partsPerSecond))
}

// Parts returns a copy of the parts in flight.
func (s *Sorter) Parts() []Part {
	out := make([]Part, len(s.parts))
	copy(out, s.parts)
	return out
}

// Counts returns the sorted totals.
func (s *Sorter) Counts() Counts { return s.counts }

// Step advances the belt by dt.
func (s *Sorter) Step(dt time.Duration) {
	if !s.running {
		return
	}
	for n := s.spawnTimer.Advance(dt); n > 0; n-- {
		s.spawn()
	}
	for n := s.moveTimer.Advance(dt); n > 0; n-- {
		s.move()
	}
}

func (s *Sorter) spawn() {
	if len(s.parts) >= MaxParts {
		return
	}
	s.Add(Color(s.rng.IntN(3)), Shape(s.rng.IntN(3)), Size(s.rng.IntN(3)))
}

// Add places a part with the given attributes at the belt entry.
func (s *Sorter) Add(c Color, sh Shape, z Size) Part {
	p := Part{ID: s.nextID, Color: c, Shape: sh, Size: z}
	s.nextID++
	s.parts = append(s.parts, p)
	return p
}

func (s *Sorter) move() {
	step := s.speed / speedScale
	kept := s.parts[:0]
	for _, p := range s.parts {
		if p.Phase < SizeBranch && p.Progress >= 1 {
			p.Phase++
			p.Progress = 0
		}
		p.Progress = math.Min(p.Progress+step, 1)
		if p.Phase == SizeBranch && p.Progress >= 1 {
			s.counts.add(p)
			continue
		}
		kept = append(kept, p)
	}
	s.parts = kept
}

// PartView is a part with its drawn position.
type PartView struct {
	Part
	Position sim.Point `json:"position"`
	Radius   float64   `json:"radius"`
}

// Snapshot is the HMI view of the sorter.
type Snapshot struct {
	Running        bool       `json:"running"`
	Speed          float64    `json:"speed"`
	PartsPerSecond int        `json:"parts_per_second"`
	Parts          []PartView `json:"parts"`
	Counts         Counts     `json:"counts"`
}

// Snapshot captures the current state positioned on layout.
func (s *Sorter) Snapshot(layout Layout) Snapshot {
	views := make([]PartView, 0, len(s.parts))
	for _, p := range s.parts {
		views = append(views, PartView{Part: p, Position: layout.Position(p), Radius: p.Size.Radius()})
	}
	return Snapshot{
		Running:        s.running,
		Speed:          s.speed,
		PartsPerSecond: s.partsPerSecond,
		Parts:          views,
		Counts:         s.counts,
	}
}
