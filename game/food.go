package game

import (
	"fmt"
	"math"
	"math/rand"

	"nobiko-server/protocol"
)

// Food kinds
const (
	FoodSmall  = "small"
	FoodMedium = "medium"
	FoodLarge  = "large"
	FoodDeath  = "death"
)

// Food is a consumable entity. Only the FoodField holds references to it.
type Food struct {
	ID    string
	X     float64
	Y     float64
	Size  float64 // radius
	Value int
	Kind  string
	Color string
	Phase float64 // cosmetic pulse offset
}

// Pos returns the food center.
func (f *Food) Pos() Point {
	return Point{X: f.X, Y: f.Y}
}

// ToDTO converts Food to its broadcast form.
func (f *Food) ToDTO() protocol.Food {
	return protocol.Food{
		ID:    f.ID,
		X:     roundTo1(f.X),
		Y:     roundTo1(f.Y),
		Size:  f.Size,
		Value: f.Value,
		Kind:  f.Kind,
		Color: f.Color,
		Phase: roundTo1(f.Phase),
	}
}

// FoodField owns every food entity of a world, in insertion order.
type FoodField struct {
	width, height float64
	tuning        Tuning
	obstacles     []Rect
	rng           *rand.Rand

	items   []*Food
	byID    map[string]int // id -> index in items
	grid    *foodGrid
	counter int
	maxSize float64 // largest radius ever added, bounds grid queries
}

// NewFoodField creates an empty field for a width×height world.
func NewFoodField(t Tuning, obstacles []Rect, rng *rand.Rand) *FoodField {
	return &FoodField{
		width:     t.WorldWidth,
		height:    t.WorldHeight,
		tuning:    t,
		obstacles: obstacles,
		rng:       rng,
		byID:      make(map[string]int),
		grid:      newFoodGrid(t.FoodCellSize),
	}
}

// Len returns the current population.
func (ff *FoodField) Len() int {
	return len(ff.items)
}

// Get returns a food by id.
func (ff *FoodField) Get(id string) (*Food, bool) {
	i, ok := ff.byID[id]
	if !ok {
		return nil, false
	}
	return ff.items[i], true
}

// All returns the food in insertion order. The slice must not be modified.
func (ff *FoodField) All() []*Food {
	return ff.items
}

func (ff *FoodField) add(f *Food) {
	ff.byID[f.ID] = len(ff.items)
	ff.items = append(ff.items, f)
	ff.grid.insert(f)
	if f.Size > ff.maxSize {
		ff.maxSize = f.Size
	}
}

// Remove deletes a food by id. It reports whether the food existed.
func (ff *FoodField) Remove(id string) bool {
	i, ok := ff.byID[id]
	if !ok {
		return false
	}
	f := ff.items[i]
	ff.grid.remove(f)
	delete(ff.byID, id)
	copy(ff.items[i:], ff.items[i+1:])
	ff.items[len(ff.items)-1] = nil
	ff.items = ff.items[:len(ff.items)-1]
	for j := i; j < len(ff.items); j++ {
		ff.byID[ff.items[j].ID] = j
	}
	return true
}

func (ff *FoodField) newID() string {
	ff.counter++
	return fmt.Sprintf("f%d", ff.counter)
}

func (ff *FoodField) randomColor() string {
	return NeonColors[ff.rng.Intn(len(NeonColors))]
}

// SpawnOne creates one randomly typed food at a random position and adds it.
// 80% small, 15% medium, 5% large.
func (ff *FoodField) SpawnOne() *Food {
	kind, size, value := FoodSmall, 3.0, 1
	switch r := ff.rng.Float64(); {
	case r >= 0.95:
		kind, size, value = FoodLarge, 10, 4+ff.rng.Intn(2)
	case r >= 0.80:
		kind, size, value = FoodMedium, 6, 2+ff.rng.Intn(2)
	}

	f := &Food{
		ID:    ff.newID(),
		Size:  size,
		Value: value,
		Kind:  kind,
		Color: ff.randomColor(),
		Phase: ff.rng.Float64() * 2 * math.Pi,
	}
	p := ff.randomPosition()
	f.X, f.Y = p.X, p.Y
	ff.add(f)
	return f
}

// randomPosition picks a uniform point inside the margins, retrying a few
// times to stay clear of obstacles. The last attempt is kept regardless.
func (ff *FoodField) randomPosition() Point {
	m := ff.tuning.FoodMargin
	attempts := ff.tuning.FoodAttempts
	if attempts < 1 {
		attempts = 1
	}
	var p Point
	for i := 0; i < attempts; i++ {
		p = Point{
			X: m + ff.rng.Float64()*(ff.width-2*m),
			Y: m + ff.rng.Float64()*(ff.height-2*m),
		}
		if !ff.insideObstacle(p) {
			return p
		}
	}
	return p
}

func (ff *FoodField) insideObstacle(p Point) bool {
	for _, o := range ff.obstacles {
		if o.ContainsInflated(p, ff.tuning.FoodMargin) {
			return true
		}
	}
	return false
}

// Replenish spawns at most one food when the population is below target.
func (ff *FoodField) Replenish(target int) *Food {
	if len(ff.items) >= target {
		return nil
	}
	return ff.SpawnOne()
}

// QueryCollisions returns all food whose center lies within radius+size of p.
func (ff *FoodField) QueryCollisions(p Point, radius float64) []*Food {
	var hits []*Food
	ff.grid.near(p.X, p.Y, radius+ff.maxSize, func(f *Food) {
		if CirclesOverlap(p, radius, f.Pos(), f.Size) {
			hits = append(hits, f)
		}
	})
	return hits
}

// SpawnDeathField scatters a bounded cluster of food along a dead body.
// Total value stays below the segment count so deaths never inflate the
// economy.
func (ff *FoodField) SpawnDeathField(segments []Point, color string) []*Food {
	n := len(segments)
	if n == 0 {
		return nil
	}
	count := (n + 1) / 2
	if count > ff.tuning.DeathFoodCap {
		count = ff.tuning.DeathFoodCap
	}
	if count < 1 {
		count = 1
	}
	value := 1
	if n > 1 {
		value = (n - 1) / count
	}
	if value > ff.tuning.DeathFoodValue {
		value = ff.tuning.DeathFoodValue
	}
	if value < 1 {
		value = 1
	}
	if color == "" {
		color = "#ff0080"
	}

	m := ff.tuning.FoodMargin
	scatter := ff.tuning.DeathScatter
	out := make([]*Food, 0, count)
	for i := 0; i < count; i++ {
		seg := segments[i*n/count]
		x := seg.X + (ff.rng.Float64()*2-1)*scatter
		y := seg.Y + (ff.rng.Float64()*2-1)*scatter
		f := &Food{
			ID:    ff.newID(),
			X:     clamp(x, m, ff.width-m),
			Y:     clamp(y, m, ff.height-m),
			Size:  ff.tuning.DeathFoodSize,
			Value: value,
			Kind:  FoodDeath,
			Color: color,
			Phase: ff.rng.Float64() * 2 * math.Pi,
		}
		ff.add(f)
		out = append(out, f)
	}
	return out
}
