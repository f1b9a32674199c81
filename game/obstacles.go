package game

import (
	"math"
	"math/rand"

	"nobiko-server/protocol"
)

// Obstacle is a static wall block.
type Obstacle struct {
	Rect
	Color string
}

// ToDTO converts the obstacle to its broadcast form.
func (o Obstacle) ToDTO() protocol.Obstacle {
	return protocol.Obstacle{
		X:      roundTo1(o.X),
		Y:      roundTo1(o.Y),
		Width:  roundTo1(o.Width),
		Height: roundTo1(o.Height),
		Color:  o.Color,
	}
}

const (
	wallThickness = 20.0
	roomColor     = "#00ff00"
	mazeColor     = "#ff00ff"
	ringColor     = "#00ffff"
)

// GenerateArena builds the arena layout: four corner rooms and two side
// rooms with door gaps, a handful of maze bars, and a broken ring around
// the center. Positions scale with the world size.
func GenerateArena(width, height float64, rng *rand.Rand) []Obstacle {
	var out []Obstacle

	rooms := []Rect{
		{X: 100, Y: 100, Width: 400, Height: 300},
		{X: width - 500, Y: 100, Width: 400, Height: 300},
		{X: 100, Y: height - 400, Width: 400, Height: 300},
		{X: width - 500, Y: height - 400, Width: 400, Height: 300},
		{X: 50, Y: height/2 - 150, Width: 200, Height: 300},
		{X: width - 250, Y: height/2 - 150, Width: 200, Height: 300},
	}
	for _, r := range rooms {
		out = wallWithOpenings(out, r.X, r.Y, r.Width, wallThickness, 2, 80)
		out = wallWithOpenings(out, r.X, r.Y+r.Height-wallThickness, r.Width, wallThickness, 2, 80)
		out = wallWithOpenings(out, r.X, r.Y, wallThickness, r.Height, 1, 60)
		out = wallWithOpenings(out, r.X+r.Width-wallThickness, r.Y, wallThickness, r.Height, 1, 60)
	}

	// Maze bars are laid out on a 3000x2000 reference and scaled.
	sx, sy := width/3000, height/2000
	for _, m := range []Rect{
		{X: 800, Y: 600, Width: 20, Height: 200},
		{X: 1000, Y: 400, Width: 200, Height: 20},
		{X: 1400, Y: 700, Width: 20, Height: 150},
		{X: 1200, Y: 900, Width: 300, Height: 20},
		{X: 2000, Y: 500, Width: 20, Height: 250},
		{X: 1800, Y: 800, Width: 150, Height: 20},
	} {
		out = append(out, Obstacle{
			Rect:  Rect{X: m.X * sx, Y: m.Y * sy, Width: m.Width, Height: m.Height},
			Color: mazeColor,
		})
	}

	cx, cy, radius := width/2, height/2, 200.0
	for angle := 0.0; angle < 2*math.Pi; angle += 0.3 {
		if rng.Float64() <= 0.3 {
			continue // opening
		}
		out = append(out, Obstacle{
			Rect: Rect{
				X:      cx + math.Cos(angle)*radius - 10,
				Y:      cy + math.Sin(angle)*radius - 10,
				Width:  20,
				Height: 20,
			},
			Color: ringColor,
		})
	}
	return out
}

// wallWithOpenings splits a straight wall into pieces separated by gaps of
// openingSize. Pieces shorter than the wall thickness are skipped.
func wallWithOpenings(out []Obstacle, x, y, w, h float64, openings int, openingSize float64) []Obstacle {
	parts := float64(openings + 1)
	if w > h {
		piece := (w - float64(openings)*openingSize) / parts
		cur := x
		for i := 0; i <= openings; i++ {
			if piece > wallThickness {
				out = append(out, Obstacle{Rect: Rect{X: cur, Y: y, Width: piece, Height: h}, Color: roomColor})
			}
			cur += piece + openingSize
		}
		return out
	}
	piece := (h - float64(openings)*openingSize) / parts
	cur := y
	for i := 0; i <= openings; i++ {
		if piece > wallThickness {
			out = append(out, Obstacle{Rect: Rect{X: x, Y: cur, Width: w, Height: piece}, Color: roomColor})
		}
		cur += piece + openingSize
	}
	return out
}

func obstacleRects(obs []Obstacle) []Rect {
	out := make([]Rect, len(obs))
	for i, o := range obs {
		out[i] = o.Rect
	}
	return out
}
