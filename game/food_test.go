package game

import (
	"math/rand"
	"testing"
)

func newTestField(t *testing.T) *FoodField {
	t.Helper()
	return NewFoodField(DefaultTuning(), nil, rand.New(rand.NewSource(11)))
}

func TestSpawnOneKindsAndBounds(t *testing.T) {
	ff := newTestField(t)
	const n = 2000
	small := 0
	for i := 0; i < n; i++ {
		f := ff.SpawnOne()
		if f.X < 15 || f.X > 3000-15 || f.Y < 15 || f.Y > 2000-15 {
			t.Fatalf("food %s out of margins: (%f, %f)", f.ID, f.X, f.Y)
		}
		switch f.Kind {
		case FoodSmall:
			small++
			if f.Value != 1 || f.Size != 3 {
				t.Fatalf("small food = %+v", f)
			}
		case FoodMedium:
			if f.Value < 2 || f.Value > 3 || f.Size != 6 {
				t.Fatalf("medium food = %+v", f)
			}
		case FoodLarge:
			if f.Value < 4 || f.Value > 5 || f.Size != 10 {
				t.Fatalf("large food = %+v", f)
			}
		default:
			t.Fatalf("unexpected kind %q", f.Kind)
		}
	}
	if frac := float64(small) / n; frac < 0.75 || frac > 0.85 {
		t.Fatalf("small fraction = %.3f, want about 0.8", frac)
	}
	if ff.Len() != n {
		t.Fatalf("Len = %d, want %d", ff.Len(), n)
	}
}

func TestReplenishAddsAtMostOne(t *testing.T) {
	ff := newTestField(t)
	for i := 1; i <= 10; i++ {
		if ff.Replenish(10) == nil {
			t.Fatalf("replenish %d added nothing", i)
		}
		if ff.Len() != i {
			t.Fatalf("after %d replenishes Len = %d", i, ff.Len())
		}
	}
	if ff.Replenish(10) != nil || ff.Len() != 10 {
		t.Fatalf("replenish at target grew the field to %d", ff.Len())
	}
}

func TestRemoveKeepsOrderAndIndex(t *testing.T) {
	ff := newTestField(t)
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, ff.SpawnOne().ID)
	}
	if !ff.Remove(ids[2]) {
		t.Fatalf("remove existing food failed")
	}
	if ff.Remove(ids[2]) {
		t.Fatalf("second remove reported success")
	}

	want := []string{ids[0], ids[1], ids[3], ids[4]}
	for i, f := range ff.All() {
		if f.ID != want[i] {
			t.Fatalf("All()[%d] = %s, want %s", i, f.ID, want[i])
		}
		got, ok := ff.Get(f.ID)
		if !ok || got != f {
			t.Fatalf("Get(%s) lost after remove", f.ID)
		}
	}
	if hits := ff.QueryCollisions(Point{X: 1500, Y: 1000}, 5000); len(hits) != 4 {
		t.Fatalf("grid still holds removed food: %d hits", len(hits))
	}
}

func TestQueryCollisions(t *testing.T) {
	ff := newTestField(t)
	ff.add(&Food{ID: "near", X: 110, Y: 100, Size: 3, Value: 1})
	ff.add(&Food{ID: "edge", X: 111, Y: 100, Size: 3, Value: 1})
	ff.add(&Food{ID: "cell", X: 205, Y: 100, Size: 10, Value: 4})

	hits := ff.QueryCollisions(Point{X: 100, Y: 100}, 8)
	if len(hits) != 1 || hits[0].ID != "near" {
		t.Fatalf("hits = %v", foodIDs(hits))
	}

	// a large radius reaches into the neighbouring grid cell
	hits = ff.QueryCollisions(Point{X: 190, Y: 100}, 8)
	if len(hits) != 1 || hits[0].ID != "cell" {
		t.Fatalf("hits = %v", foodIDs(hits))
	}
}

func foodIDs(fs []*Food) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.ID
	}
	return out
}

func TestSpawnDeathField(t *testing.T) {
	ff := newTestField(t)
	for _, n := range []int{3, 4, 10, 51, 100} {
		segs := make([]Point, n)
		for i := range segs {
			segs[i] = Point{X: 1000 + float64(i)*10, Y: 1000}
		}
		dropped := ff.SpawnDeathField(segs, "#abcdef")

		wantCount := (n + 1) / 2
		if wantCount > 25 {
			wantCount = 25
		}
		if len(dropped) != wantCount {
			t.Fatalf("n=%d: dropped %d, want %d", n, len(dropped), wantCount)
		}
		total := 0
		for _, f := range dropped {
			total += f.Value
			if f.Kind != FoodDeath || f.Color != "#abcdef" || f.Value < 1 || f.Value > 2 {
				t.Fatalf("n=%d: death food = %+v", n, f)
			}
		}
		if total >= n {
			t.Fatalf("n=%d: total value %d not below segment count", n, total)
		}
	}
}

func TestSpawnDeathFieldClampsToMargins(t *testing.T) {
	ff := newTestField(t)
	segs := []Point{{X: 0, Y: 0}, {X: 2, Y: 1}, {X: 3000, Y: 2000}, {X: 2999, Y: 1999}}
	for _, f := range ff.SpawnDeathField(segs, "") {
		if f.X < 15 || f.X > 2985 || f.Y < 15 || f.Y > 1985 {
			t.Fatalf("death food outside margins: (%f, %f)", f.X, f.Y)
		}
		if f.Color == "" {
			t.Fatalf("empty color not defaulted")
		}
	}
}

func TestFoodAvoidsObstacles(t *testing.T) {
	tu := DefaultTuning()
	wall := Rect{X: 0, Y: 0, Width: 1500, Height: 2000}
	ff := NewFoodField(tu, []Rect{wall}, rand.New(rand.NewSource(5)))
	inside := 0
	for i := 0; i < 500; i++ {
		if f := ff.SpawnOne(); wall.ContainsInflated(f.Pos(), 0) {
			inside++
		}
	}
	// half the world is blocked; retries should keep nearly everything out
	if inside > 5 {
		t.Fatalf("%d of 500 food spawned inside the obstacle", inside)
	}
}
