package game

import "math"

// Point is a 2D coordinate
type Point struct {
	X float64
	Y float64
}

// Add adds two points
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub subtracts o from p
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Mul multiplies by a scalar
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Len returns the magnitude of p as a vector
func (p Point) Len() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Normalize returns a unit vector in the same direction, or the zero vector.
func (p Point) Normalize() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Dist returns the distance between two points
func Dist(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// CirclesOverlap reports whether two circles overlap (touching does not count).
func CirclesOverlap(a Point, ra float64, b Point, rb float64) bool {
	return Dist(a, b) < ra+rb
}

// Rect is an axis-aligned box
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ContainsInflated checks whether p lies inside r grown by pad on every side.
func (r Rect) ContainsInflated(p Point, pad float64) bool {
	return p.X >= r.X-pad && p.X <= r.X+r.Width+pad &&
		p.Y >= r.Y-pad && p.Y <= r.Y+r.Height+pad
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finitePoint(p Point) bool {
	return finite(p.X) && finite(p.Y)
}

// roundTo1 rounds a float64 to 1 decimal place to save protocol bytes.
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
