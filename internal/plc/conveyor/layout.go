package conveyor

import "github.com/reyesjorge76/jr-portfolio/internal/sim"

// Layout is the belt geometry. The sorter only tracks phase and progress; a
// layout turns those into coordinates, so another drawing can reuse the machine.
type Layout struct {
	Entry     sim.Point
	Fork      sim.Point
	ColorEnds [3]sim.Point
	ShapeEnds [3][3]sim.Point
	BinEnds   [Bins]sim.Point
}

// DefaultLayout is the three-level sorter drawn on a 1350x1150 canvas.
func DefaultLayout() Layout {
	l := Layout{
		Entry: sim.Point{X: -140, Y: 540},
		Fork:  sim.Point{X: 100, Y: 540},
		ColorEnds: [3]sim.Point{
			{X: 430, Y: 175},
			{X: 430, Y: 540},
			{X: 430, Y: 900},
		},
	}
	shapeOffsets := [3][3]float64{
		{60, 180, 300},
		{420, 540, 660},
		{780, 900, 1020},
	}
	for c := range 3 {
		for s := range 3 {
			end := sim.Point{X: 800, Y: shapeOffsets[c][s]}
			l.ShapeEnds[c][s] = end
			for z := range 3 {
				l.BinEnds[BinIndex(Color(c), Shape(s), Size(z))] = sim.Point{X: 1150, Y: end.Y + float64(z-1)*40}
			}
		}
	}
	return l
}

// Segment returns the start and end of the belt section p is currently on.
func (l Layout) Segment(p Part) (sim.Point, sim.Point) {
	switch p.Phase {
	case MainBelt:
		return l.Entry, l.Fork
	case ColorBranch:
		return l.Fork, l.ColorEnds[p.Color]
	case ShapeBranch:
		return l.ColorEnds[p.Color], l.ShapeEnds[p.Color][p.Shape]
	default:
		return l.ShapeEnds[p.Color][p.Shape], l.BinEnds[p.Bin()]
	}
}

// Position is where p is drawn.
func (l Layout) Position(p Part) sim.Point {
	a, b := l.Segment(p)
	return sim.Lerp(a, b, p.Progress)
}
