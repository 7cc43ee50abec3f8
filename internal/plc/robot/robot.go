// Package robot simulates a pick-and-place cell that moves parts one slot at
// a time from a pick grid to the matching slot of a pallet.
package robot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

const (
	cycleInterval = 50 * time.Millisecond
	resetDelay    = 2 * time.Second

	// MaxSpeed caps the programmed speed.
	MaxSpeed = 25.0

	DefaultPalletSize = 6
	DefaultSpeed      = 25

	// MaxPalletSize is the largest pallet the HMI grid shows.
	MaxPalletSize = 24

	// progress thresholds within one slot cycle, in percent
	reachPick   = 15.0
	gripClose   = 20.0
	leavePick   = 25.0
	reachPlace  = 65.0
	gripOpen    = 70.0
	leavePlace  = 80.0
	cycleLength = 100.0
)

// ParsePalletSize reads the recipe field as a slot count. Anything that is
// not a finite positive number falls back to DefaultPalletSize; larger
// counts are capped at MaxPalletSize.
func ParsePalletSize(recipe string) int {
	n, err := strconv.ParseFloat(strings.TrimSpace(recipe), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < 1 {
		return DefaultPalletSize
	}
	return int(math.Min(n, MaxPalletSize))
}

// Cell is one robot cell. It is not safe for concurrent use.
type Cell struct {
	layout Layout

	running bool
	speed   float64
	slots   int

	arm      sim.Point
	gripOpen bool
	hasItem  bool
	transit  *sim.Point
	phase    string

	progress  float64
	pickIndex int
	placed    bool // transfer for the current slot already booked

	picked    []bool
	completed []bool

	itemsPlaced int
	palletCount int

	timer     sim.Timer
	resetting sim.Countdown
}

// New returns a stopped cell with the arm at home.
func New(layout Layout) *Cell {
	c := &Cell{
		layout: layout,
		speed:  DefaultSpeed,
		timer:  sim.NewTimer(cycleInterval),
	}
	c.SetPalletSize(DefaultPalletSize)
	c.home()
	return c
}

// SetPalletSize resizes the grids to n slots and clears all progress.
func (c *Cell) SetPalletSize(n int) {
	if n < 1 {
		n = DefaultPalletSize
	}
	n = min(n, MaxPalletSize)
	c.slots = n
	c.picked = make([]bool, n)
	c.completed = make([]bool, n)
	c.pickIndex = 0
	c.palletCount = 0
	c.itemsPlaced = 0
}

// PalletSize is the configured slot count.
func (c *Cell) PalletSize() int { return c.slots }

// SetSpeed sets the programmed speed; it is capped at MaxSpeed.
func (c *Cell) SetSpeed(v float64) { c.speed = sim.Clamp(v, 0, MaxSpeed) }

// Start runs the program from the current slot.
func (c *Cell) Start() error {
	if !c.running && !c.resetting.Armed() {
		c.progress = 0
		c.home()
	}
	c.running = true
	c.timer.Reset()
	return nil
}

// Stop halts motion. Picked and completed slots are kept; the arm parks over
// the current pick slot.
func (c *Cell) Stop() {
	c.running = false
	if c.resetting.Armed() {
		return
	}
	c.gripOpen = true
	c.hasItem = false
	c.transit = nil
	c.placed = false
	c.parkOverPick()
	c.phase = "idle"
}

// Reset runs the reset sequence: the arm goes home at once and after a short
// delay every slot and counter is cleared.
func (c *Cell) Reset() {
	if c.resetting.Armed() {
		return
	}
	c.phase = "resetting system"
	c.arm = c.layout.Home
	c.resetting.Arm(resetDelay)
}

// Resetting reports whether the reset sequence is pending.
func (c *Cell) Resetting() bool { return c.resetting.Armed() }

// MoveLeft steps the arm to the previous pick slot. Only allowed while stopped.
func (c *Cell) MoveLeft() bool { return c.jog(-1) }

// MoveRight steps the arm to the next pick slot. Only allowed while stopped.
func (c *Cell) MoveRight() bool { return c.jog(1) }

func (c *Cell) jog(delta int) bool {
	if c.running || c.resetting.Armed() {
		return false
	}
	c.pickIndex = max(0, min(c.slots-1, c.pickIndex+delta))
	c.arm = c.layout.PickSlot(c.pickIndex)
	c.phase = fmt.Sprintf("manual move to pick position %d", c.pickIndex+1)
	return true
}

// Step advances the cell by dt.
func (c *Cell) Step(dt time.Duration) {
	if c.resetting.Advance(dt) {
		c.finishReset()
		return
	}
	if c.resetting.Armed() || !c.running {
		return
	}
	for n := c.timer.Advance(dt); n > 0; n-- {
		if c.pickIndex >= c.slots {
			c.Reset()
			return
		}
		c.tick()
	}
	if c.pickIndex >= c.slots {
		c.Reset()
	}
}

func (c *Cell) tick() {
	i := c.pickIndex
	pick := c.layout.PickSlot(i)
	place := c.layout.PlaceSlot(i)
	p := c.progress + c.speed/8

	switch {
	case p < reachPick:
		c.phase = fmt.Sprintf("moving to pick position %d", i+1)
		c.gripOpen = true
		c.transit = nil
		c.arm = sim.Lerp(c.layout.Home, pick, p/reachPick)
	case p < leavePick:
		c.phase = fmt.Sprintf("picking from position %d", i+1)
		c.arm = pick
		if p > gripClose {
			c.gripOpen = false
			c.hasItem = true
			c.picked[i] = true
		}
	case p < reachPlace:
		c.phase = fmt.Sprintf("moving to place position %d", i+1)
		c.gripOpen = false
		c.arm = sim.Lerp(pick, place, (p-leavePick)/(reachPlace-leavePick))
		c.carry()
	case p < leavePlace:
		c.phase = fmt.Sprintf("placing at position %d", i+1)
		c.arm = place
		if p > gripOpen && !c.placed {
			c.transit = nil
			c.gripOpen = true
			c.hasItem = false
			if !c.completed[i] {
				c.completed[i] = true
				c.itemsPlaced++
			}
			c.palletCount++
			c.placed = true
		} else if c.hasItem {
			c.carry()
		}
	case p < cycleLength:
		c.phase = "returning home"
		c.gripOpen = true
		c.hasItem = false
		c.transit = nil
		c.arm = sim.Lerp(place, c.layout.Home, (p-leavePlace)/(cycleLength-leavePlace))
	default:
		p = 0
		c.pickIndex++
		c.placed = false
		c.hasItem = false
		c.transit = nil
		c.gripOpen = true
	}
	c.progress = p
}

func (c *Cell) carry() {
	item := sim.Point{X: c.arm.X, Y: c.arm.Y - 15}
	c.transit = &item
}

func (c *Cell) finishReset() {
	c.palletCount = 0
	c.itemsPlaced = 0
	c.pickIndex = 0
	c.progress = 0
	c.picked = make([]bool, c.slots)
	c.completed = make([]bool, c.slots)
	c.home()
	c.timer.Reset()
	if !c.running {
		c.parkOverPick()
	}
}

func (c *Cell) home() {
	c.arm = c.layout.Home
	c.phase = "idle"
	c.gripOpen = true
	c.hasItem = false
	c.transit = nil
	c.placed = false
}

func (c *Cell) parkOverPick() {
	c.arm = c.layout.PickSlot(min(c.pickIndex, c.slots-1))
}

// Slot is the HMI state of one grid position.
type Slot struct {
	Pick      sim.Point `json:"pick"`
	Place     sim.Point `json:"place"`
	Picked    bool      `json:"picked"`
	Completed bool      `json:"completed"`
}

// Snapshot is the HMI view of the cell.
type Snapshot struct {
	Running     bool       `json:"running"`
	Resetting   bool       `json:"resetting"`
	Speed       float64    `json:"speed"`
	PalletSize  int        `json:"pallet_size"`
	Rows        int        `json:"rows"`
	Phase       string     `json:"phase"`
	Progress    float64    `json:"progress"`
	PickIndex   int        `json:"pick_index"`
	Arm         sim.Point  `json:"arm"`
	Pose        Pose       `json:"pose"`
	GripperOpen bool       `json:"gripper_open"`
	HasItem     bool       `json:"has_item"`
	InTransit   *sim.Point `json:"in_transit,omitempty"`
	ItemsPlaced int        `json:"items_placed"`
	PalletCount int        `json:"pallet_count"`
	Slots       []Slot     `json:"slots"`
}

// Snapshot captures the current state.
func (c *Cell) Snapshot() Snapshot {
	slots := make([]Slot, c.slots)
	for i := range slots {
		slots[i] = Slot{
			Pick:      c.layout.PickSlot(i),
			Place:     c.layout.PlaceSlot(i),
			Picked:    c.picked[i],
			Completed: c.completed[i],
		}
	}
	return Snapshot{
		Running:     c.running,
		Resetting:   c.resetting.Armed(),
		Speed:       c.speed,
		PalletSize:  c.slots,
		Rows:        c.layout.Rows(c.slots),
		Phase:       c.phase,
		Progress:    math.Round(c.progress*1000) / 1000,
		PickIndex:   c.pickIndex,
		Arm:         c.arm,
		Pose:        c.layout.PoseFor(c.arm),
		GripperOpen: c.gripOpen,
		HasItem:     c.hasItem,
		InTransit:   c.transit,
		ItemsPlaced: c.itemsPlaced,
		PalletCount: c.palletCount,
		Slots:       slots,
	}
}
