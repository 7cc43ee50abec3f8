package robot

import (
	"math"

	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

// Layout is the cell geometry: where home is and how the pick and place
// grids are laid out.
type Layout struct {
	Home      sim.Point
	PickBase  sim.Point
	PlaceBase sim.Point
	Pitch     float64
	Columns   int

	Base      sim.Point
	ArmLength float64
}

// DefaultLayout matches the 800x400 cell drawing.
func DefaultLayout() Layout {
	return Layout{
		Home:      sim.Point{X: 400, Y: 200},
		PickBase:  sim.Point{X: 170, Y: 260},
		PlaceBase: sim.Point{X: 560, Y: 260},
		Pitch:     30,
		Columns:   3,
		Base:      sim.Point{X: 400, Y: 300},
		ArmLength: 120,
	}
}

// Rows is the number of grid rows needed for n slots.
func (l Layout) Rows(n int) int {
	return (n + l.Columns - 1) / l.Columns
}

func (l Layout) slot(base sim.Point, index int) sim.Point {
	row := index / l.Columns
	col := index % l.Columns
	return sim.Point{
		X: base.X + float64(col)*l.Pitch,
		Y: base.Y + float64(row)*l.Pitch,
	}
}

// PickSlot is the position of pick slot i.
func (l Layout) PickSlot(i int) sim.Point { return l.slot(l.PickBase, i) }

// PlaceSlot is the position of place slot i.
func (l Layout) PlaceSlot(i int) sim.Point { return l.slot(l.PlaceBase, i) }

// Pose is the arm joint state for an end-effector position.
type Pose struct {
	Angle float64 `json:"angle"` // degrees, 0 pointing down
	Reach float64 `json:"reach"` // fraction of full extension
}

// PoseFor computes the arm angle and reach to put the effector at target.
func (l Layout) PoseFor(target sim.Point) Pose {
	dx := target.X - l.Base.X
	dy := target.Y - l.Base.Y
	dist := math.Min(math.Hypot(dx, dy), l.ArmLength)
	return Pose{
		Angle: math.Atan2(dy, dx)*180/math.Pi - 90,
		Reach: dist / l.ArmLength,
	}
}
