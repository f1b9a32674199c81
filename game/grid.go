package game

import "math"

// cellKey uniquely identifies a grid cell
type cellKey struct {
	cx, cy int
}

// foodGrid is a hash grid over food positions. Food never moves, so entries
// are inserted once and removed on consumption.
type foodGrid struct {
	cells    map[cellKey][]*Food
	cellSize float64
}

func newFoodGrid(cellSize float64) *foodGrid {
	if cellSize <= 0 {
		cellSize = 100
	}
	return &foodGrid{
		cells:    make(map[cellKey][]*Food),
		cellSize: cellSize,
	}
}

func (g *foodGrid) keyFor(x, y float64) cellKey {
	return cellKey{
		cx: int(math.Floor(x / g.cellSize)),
		cy: int(math.Floor(y / g.cellSize)),
	}
}

func (g *foodGrid) insert(f *Food) {
	k := g.keyFor(f.X, f.Y)
	g.cells[k] = append(g.cells[k], f)
}

func (g *foodGrid) remove(f *Food) {
	k := g.keyFor(f.X, f.Y)
	cell := g.cells[k]
	for i, e := range cell {
		if e == f {
			cell[i] = cell[len(cell)-1]
			cell[len(cell)-1] = nil
			cell = cell[:len(cell)-1]
			break
		}
	}
	if len(cell) == 0 {
		delete(g.cells, k)
		return
	}
	g.cells[k] = cell
}

// near calls fn for every food whose cell intersects the square of half-size
// reach around (x,y). Exact distance filtering is up to fn.
func (g *foodGrid) near(x, y, reach float64, fn func(f *Food)) {
	minCX := int(math.Floor((x - reach) / g.cellSize))
	maxCX := int(math.Floor((x + reach) / g.cellSize))
	minCY := int(math.Floor((y - reach) / g.cellSize))
	maxCY := int(math.Floor((y + reach) / g.cellSize))

	for cx := minCX; cx <= maxCX; cx++ {
		for cy := minCY; cy <= maxCY; cy++ {
			for _, f := range g.cells[cellKey{cx, cy}] {
				fn(f)
			}
		}
	}
}
