package game

import (
	"errors"
	"math"
	"testing"
	"time"

	"nobiko-server/protocol"
)

func TestSpawnLimits(t *testing.T) {
	tu := DefaultTuning()
	tu.Obstacles = false
	tu.MaxActors = 2
	tu.Seed = 9
	w := NewWorld(tu)

	if _, err := w.Spawn("a", "A", "#fff", protocol.Character{}, epoch); err != nil {
		t.Fatalf("spawn a: %v", err)
	}
	if _, err := w.Spawn("a", "A", "#fff", protocol.Character{}, epoch); !errors.Is(err, ErrDuplicateActor) {
		t.Fatalf("duplicate spawn err = %v", err)
	}
	if _, err := w.Spawn("b", "B", "#fff", protocol.Character{}, epoch); err != nil {
		t.Fatalf("spawn b: %v", err)
	}
	if _, err := w.Spawn("c", "C", "#fff", protocol.Character{}, epoch); !errors.Is(err, ErrWorldFull) {
		t.Fatalf("spawn past capacity err = %v", err)
	}
	if w.Len() != 2 {
		t.Fatalf("Len = %d", w.Len())
	}
}

func TestSpawnInvariants(t *testing.T) {
	w := NewWorld(DefaultTuning())
	for i := 0; i < 20; i++ {
		id := string(rune('a' + i))
		a, err := w.Spawn(id, id, w.RandomColor(), protocol.Character{}, epoch)
		if err != nil {
			t.Fatalf("spawn %s: %v", id, err)
		}
		if !a.Alive || len(a.Segments) != 3 || a.Scale != 1 || a.Size != 8 {
			t.Fatalf("fresh actor = %+v", a)
		}
		h := a.Head()
		if h.X < 100 || h.X > 2900 || h.Y < 100 || h.Y > 1900 {
			t.Fatalf("spawn outside margin: %+v", h)
		}
		for _, o := range w.Obstacles {
			if o.ContainsInflated(h, a.Size) {
				t.Fatalf("spawned inside obstacle %+v at %+v", o.Rect, h)
			}
		}
	}
	if len(w.Obstacles) == 0 {
		t.Fatalf("arena has no obstacles")
	}
}

func TestRespawnOnlyDead(t *testing.T) {
	w := newTestWorld(t)
	a := place(t, w, "a", Point{X: 500, Y: 500}, Point{X: 1}, epoch)

	if _, ok := w.Respawn("a", epoch); ok {
		t.Fatalf("respawned a living actor")
	}
	if _, ok := w.Respawn("ghost", epoch); ok {
		t.Fatalf("respawned an unknown actor")
	}

	a.Grow(5)
	a.kill(epoch)
	later := epoch.Add(5 * time.Second)
	got, ok := w.Respawn("a", later)
	if !ok || got != a {
		t.Fatalf("respawn of dead actor failed")
	}
	if !a.Alive || a.Score != 0 || len(a.Segments) != 3 || a.Scale != 1 || !a.LastInput.Equal(later) {
		t.Fatalf("respawned actor = %+v", a)
	}
	if _, ok := w.Respawn("a", later); ok {
		t.Fatalf("second respawn accepted")
	}
}

func TestDisconnect(t *testing.T) {
	w := newTestWorld(t)
	place(t, w, "alive", Point{X: 500, Y: 500}, Point{X: 1}, epoch)
	dead := place(t, w, "dead", Point{X: 1500, Y: 500}, Point{X: 1}, epoch)
	dead.kill(epoch)

	dropped, ok := w.Disconnect("alive")
	if !ok || len(dropped) != 2 {
		t.Fatalf("disconnect alive: ok %v dropped %d", ok, len(dropped))
	}
	dropped, ok = w.Disconnect("dead")
	if !ok || len(dropped) != 0 {
		t.Fatalf("disconnect dead: ok %v dropped %d", ok, len(dropped))
	}
	if _, ok := w.Disconnect("dead"); ok {
		t.Fatalf("disconnect twice reported success")
	}
	if w.Len() != 0 || w.Food.Len() != 2 {
		t.Fatalf("Len %d food %d", w.Len(), w.Food.Len())
	}
}

func TestStepIsolatesBrokenActors(t *testing.T) {
	w := newTestWorld(t)
	good := place(t, w, "good", Point{X: 500, Y: 500}, Point{X: 1}, epoch)
	empty := place(t, w, "empty", Point{X: 1000, Y: 1000}, Point{X: 1}, epoch)
	nan := place(t, w, "nan", Point{X: 1500, Y: 1000}, Point{X: 1}, epoch)
	panicky := place(t, w, "panicky", Point{X: 2000, Y: 1000}, Point{X: 1}, epoch)

	empty.Segments = nil
	nan.Segments[0].X = math.NaN()
	panicky.t = nil

	events := w.Step(epoch.Add(33 * time.Millisecond))

	dropped := map[string]bool{}
	for _, ev := range events {
		if d, ok := ev.(ActorDropped); ok {
			dropped[d.ActorID] = true
		}
	}
	for _, id := range []string{"empty", "nan", "panicky"} {
		if !dropped[id] {
			t.Errorf("%s was not dropped", id)
		}
		if _, ok := w.Actor(id); ok {
			t.Errorf("%s still registered", id)
		}
	}
	if !good.Alive || good.Head().X != 503 {
		t.Fatalf("healthy actor disturbed: alive %v head %+v", good.Alive, good.Head())
	}
	if w.Len() != 1 {
		t.Fatalf("Len = %d", w.Len())
	}
}

func TestStepReplenishesOnePerTick(t *testing.T) {
	tu := DefaultTuning()
	tu.Obstacles = false
	tu.TargetFood = 5
	tu.Seed = 2
	w := NewWorld(tu)
	for _, f := range append([]*Food(nil), w.Food.All()...) {
		w.Food.Remove(f.ID)
	}

	for i := 1; i <= 7; i++ {
		w.Step(epoch)
		want := i
		if want > 5 {
			want = 5
		}
		if w.Food.Len() != want {
			t.Fatalf("after %d ticks food = %d, want %d", i, w.Food.Len(), want)
		}
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	tu := DefaultTuning()
	tu.Seed = 1234
	a, b := NewWorld(tu), NewWorld(tu)

	fa, fb := a.FoodDTOs(), b.FoodDTOs()
	if len(fa) != len(fb) {
		t.Fatalf("food counts differ: %d vs %d", len(fa), len(fb))
	}
	for i := range fa {
		if fa[i] != fb[i] {
			t.Fatalf("food %d differs: %+v vs %+v", i, fa[i], fb[i])
		}
	}
	if len(a.Obstacles) != len(b.Obstacles) {
		t.Fatalf("obstacle counts differ")
	}
}

func TestSnapshot(t *testing.T) {
	w := newTestWorld(t)
	place(t, w, "a", Point{X: 500, Y: 500}, Point{X: 1}, epoch)
	b := place(t, w, "b", Point{X: 1500, Y: 500}, Point{X: 1}, epoch)
	b.kill(epoch)
	w.Food.add(&Food{ID: "f", X: 10, Y: 10, Size: 3, Value: 1, Kind: FoodSmall})
	w.Step(epoch)

	snap := w.Snapshot(epoch)
	if snap.Tick != 1 || snap.Timestamp != epoch.UnixMilli() {
		t.Fatalf("tick %d ts %d", snap.Tick, snap.Timestamp)
	}
	if len(snap.Actors) != 1 || snap.Actors[0].ID != "a" {
		t.Fatalf("actors = %+v", snap.Actors)
	}
	if len(snap.Food) != 1 || snap.Food[0].ID != "f" {
		t.Fatalf("food = %+v", snap.Food)
	}
	if w.AliveCount() != 1 || w.Len() != 2 {
		t.Fatalf("alive %d len %d", w.AliveCount(), w.Len())
	}
}

func TestDisconnectLongActor(t *testing.T) {
	w := newTestWorld(t)
	a := place(t, w, "a", Point{X: 1500, Y: 1000}, Point{X: 1}, epoch)
	place(t, w, "b", Point{X: 500, Y: 500}, Point{X: 1}, epoch)
	a.Grow(7)
	if len(a.Segments) != 10 {
		t.Fatalf("segments = %d", len(a.Segments))
	}

	dropped, ok := w.Disconnect("a")
	if !ok || len(dropped) != 5 {
		t.Fatalf("dropped %d food, ok %v", len(dropped), ok)
	}
	total := 0
	for _, f := range dropped {
		total += f.Value
	}
	if total >= 10 {
		t.Fatalf("death food value %d", total)
	}

	w.Step(epoch.Add(33 * time.Millisecond))
	for _, s := range w.Snapshot(epoch).Actors {
		if s.ID == "a" {
			t.Fatalf("disconnected actor still broadcast")
		}
	}
}
