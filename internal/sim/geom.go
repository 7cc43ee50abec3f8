package sim

import "math"

// Point is a coordinate in layout units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Lerp interpolates from a to b; t is clamped to [0,1].
func Lerp(a, b Point, t float64) Point {
	t = Clamp(t, 0, 1)
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
