// Package layout places individuals on a unit disc for drawing. Positions
// are keyed by individual id and play no part in who gets infected.
package layout

import "math"

// Point is a polar coordinate on the unit disc.
type Point struct {
	Theta float64 `json:"theta"`
	R     float64 `json:"r"`
}

// XY converts p to Cartesian coordinates with y pointing up.
func (p Point) XY() (float64, float64) {
	return p.R * math.Cos(p.Theta), p.R * math.Sin(p.Theta)
}

// goldenTurn is pi*(1+sqrt(5)), the angle between consecutive seeds.
var goldenTurn = math.Pi * (1 + math.Sqrt(5))

// Sunflower spreads n points evenly over the unit disc along a Fibonacci
// spiral. Low ids sit near the centre, so early waves grow outwards.
func Sunflower(n int) []Point {
	if n <= 0 {
		return nil
	}
	pts := make([]Point, n)
	for i := range pts {
		idx := float64(i) + 0.5
		pts[i] = Point{
			Theta: goldenTurn * idx,
			R:     math.Sqrt(idx / float64(n)),
		}
	}
	return pts
}
