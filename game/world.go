package game

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"nobiko-server/protocol"
)

var (
	ErrWorldFull      = errors.New("world is full")
	ErrDuplicateActor = errors.New("actor already registered")
)

// World holds all simulation state. It is not safe for concurrent use; the
// owner serializes every call.
type World struct {
	Tuning    Tuning
	Food      *FoodField
	Obstacles []Obstacle

	actors map[string]*Actor
	order  []string // registration order, drives iteration
	rng    *rand.Rand
	tick   uint64
}

// NewWorld creates a world, its obstacles and the initial food population.
func NewWorld(t Tuning) *World {
	seed := t.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w := &World{
		Tuning: t,
		actors: make(map[string]*Actor),
		rng:    rng,
	}
	if t.Obstacles {
		w.Obstacles = GenerateArena(t.WorldWidth, t.WorldHeight, rng)
	}
	w.Food = NewFoodField(t, obstacleRects(w.Obstacles), rng)
	for i := 0; i < t.TargetFood; i++ {
		w.Food.SpawnOne()
	}
	return w
}

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 {
	return w.tick
}

// Len returns the number of registered actors, dead or alive.
func (w *World) Len() int {
	return len(w.order)
}

// AliveCount returns the number of living actors.
func (w *World) AliveCount() int {
	n := 0
	for _, id := range w.order {
		if a := w.actors[id]; a != nil && a.Alive {
			n++
		}
	}
	return n
}

// Actor looks up an actor by id.
func (w *World) Actor(id string) (*Actor, bool) {
	a, ok := w.actors[id]
	return a, ok
}

// Actors returns all registered actors in registration order.
func (w *World) Actors() []*Actor {
	out := make([]*Actor, 0, len(w.order))
	for _, id := range w.order {
		if a, ok := w.actors[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// RandomColor picks a color from the palette
func (w *World) RandomColor() string {
	return NeonColors[w.rng.Intn(len(NeonColors))]
}

// Spawn registers a fresh actor at a random interior point.
func (w *World) Spawn(id, nickname, color string, ch protocol.Character, now time.Time) (*Actor, error) {
	if _, exists := w.actors[id]; exists {
		return nil, ErrDuplicateActor
	}
	if w.Tuning.MaxActors > 0 && len(w.order) >= w.Tuning.MaxActors {
		return nil, ErrWorldFull
	}
	a := newActor(id, nickname, color, ch, &w.Tuning)
	spawn, dir := w.randomSpawn()
	a.reset(spawn, dir, now)
	w.actors[id] = a
	w.order = append(w.order, id)
	return a, nil
}

// Respawn resets a dead actor to a fresh body. Living actors are left alone.
func (w *World) Respawn(id string, now time.Time) (*Actor, bool) {
	a, ok := w.actors[id]
	if !ok || a.Alive {
		return nil, false
	}
	spawn, dir := w.randomSpawn()
	a.reset(spawn, dir, now)
	log.Printf("actor %s (%s) respawned at (%.1f, %.1f)", a.Nickname, id, spawn.X, spawn.Y)
	return a, true
}

// Remove deregisters an actor without any side effects.
func (w *World) Remove(id string) (*Actor, bool) {
	a, ok := w.actors[id]
	if !ok {
		return nil, false
	}
	delete(w.actors, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return a, true
}

// Disconnect drops death food for a living actor and deregisters it.
func (w *World) Disconnect(id string) ([]*Food, bool) {
	a, ok := w.Remove(id)
	if !ok {
		return nil, false
	}
	var dropped []*Food
	if a.Alive && len(a.Segments) > 0 {
		dropped = w.Food.SpawnDeathField(a.Points(), a.Color)
	}
	return dropped, true
}

// randomSpawn picks a point inside the spawn margin that is clear of
// obstacles, and a heading toward the world center.
func (w *World) randomSpawn() (Point, Point) {
	t := &w.Tuning
	m := t.SpawnMargin
	clearance := t.SpawnSpacing*float64(t.InitSegments) + t.BaseSize
	var p Point
	for attempt := 0; attempt < 50; attempt++ {
		p = Point{
			X: m + w.rng.Float64()*(t.WorldWidth-2*m),
			Y: m + w.rng.Float64()*(t.WorldHeight-2*m),
		}
		if !w.blocked(p, clearance) {
			break
		}
	}
	center := Point{X: t.WorldWidth / 2, Y: t.WorldHeight / 2}
	dir := center.Sub(p).Normalize()
	if dir == (Point{}) {
		dir = Point{X: 1}
	}
	return p, dir
}

func (w *World) blocked(p Point, clearance float64) bool {
	for _, o := range w.Obstacles {
		if o.ContainsInflated(p, clearance) {
			return true
		}
	}
	for _, id := range w.order {
		a := w.actors[id]
		if a == nil || !a.Alive {
			continue
		}
		for _, s := range a.Segments {
			if Dist(p, s.Point) < clearance {
				return true
			}
		}
	}
	return false
}

// FoodDTOs returns the food list in broadcast form.
func (w *World) FoodDTOs() []protocol.Food {
	items := w.Food.All()
	out := make([]protocol.Food, len(items))
	for i, f := range items {
		out[i] = f.ToDTO()
	}
	return out
}

// ObstacleDTOs returns the obstacle list in broadcast form.
func (w *World) ObstacleDTOs() []protocol.Obstacle {
	out := make([]protocol.Obstacle, len(w.Obstacles))
	for i, o := range w.Obstacles {
		out[i] = o.ToDTO()
	}
	return out
}

// Snapshot builds the per-tick broadcast: living actors, all food, obstacles.
func (w *World) Snapshot(now time.Time) protocol.TickUpdate {
	actors := make([]protocol.ActorState, 0, len(w.order))
	for _, id := range w.order {
		a := w.actors[id]
		if a == nil || !a.Alive || len(a.Segments) == 0 {
			continue
		}
		actors = append(actors, a.ToDTO())
	}
	return protocol.TickUpdate{
		Tick:      w.tick,
		Actors:    actors,
		Food:      w.FoodDTOs(),
		Obstacles: w.ObstacleDTOs(),
		Timestamp: now.UnixMilli(),
	}
}
