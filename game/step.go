package game

import (
	"errors"
	"fmt"
	"log"
	"time"
)

// Event is something a tick produced that clients must hear about.
type Event interface {
	event()
}

// FoodConsumed: an actor ate a food.
type FoodConsumed struct {
	FoodID  string
	ActorID string
}

// ActorDied: an actor hit something and dropped a death-food cluster.
type ActorDied struct {
	ActorID  string
	Position Point
	Food     []*Food
	Cause    string
	Killer   string
}

// ActorDropped: an actor was deregistered because its state was corrupt.
type ActorDropped struct {
	ActorID string
	Err     error
}

func (FoodConsumed) event() {}
func (ActorDied) event()    {}
func (ActorDropped) event() {}

var (
	errNoBody      = errors.New("actor has no body")
	errCorruptBody = errors.New("actor body has non-finite coordinates")
)

// Step advances the world by one tick: every actor in registration order,
// then one food replenish. A fault in one actor removes only that actor.
func (w *World) Step(now time.Time) []Event {
	w.tick++
	dt := w.Tuning.TickInterval()

	var events []Event
	ids := append([]string(nil), w.order...)
	for _, id := range ids {
		a, ok := w.actors[id]
		if !ok {
			continue
		}
		if err := w.stepActor(a, now, dt, &events); err != nil {
			log.Printf("dropping actor %s (%s): %v", a.Nickname, id, err)
			w.Remove(id)
			events = append(events, ActorDropped{ActorID: id, Err: err})
		}
	}

	w.Food.Replenish(w.Tuning.TargetFood)
	return events
}

func (w *World) stepActor(a *Actor, now time.Time, dt time.Duration, events *[]Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if len(a.Segments) == 0 {
		return errNoBody
	}
	if !a.Alive {
		return nil
	}
	if !finitePoint(a.Head()) {
		return errCorruptBody
	}

	a.tickTimers(dt)

	next, dir := a.propose(now)
	if !w.Tuning.Bounded {
		next.X = clamp(next.X, a.Size, w.Tuning.WorldWidth-a.Size)
		next.Y = clamp(next.Y, a.Size, w.Tuning.WorldHeight-a.Size)
	}
	if c, hit := w.checkCollision(a, next); hit {
		*events = append(*events, w.killActor(a, c, now))
		return nil
	}
	a.commit(next, dir)

	for _, f := range w.Food.QueryCollisions(a.Head(), a.Size) {
		if !w.Food.Remove(f.ID) {
			continue
		}
		a.Grow(f.Value)
		*events = append(*events, FoodConsumed{FoodID: f.ID, ActorID: a.ID})
	}
	return nil
}

// killActor freezes a, drops its death field and reports the death.
func (w *World) killActor(a *Actor, c Collision, now time.Time) ActorDied {
	a.kill(now)
	dropped := w.Food.SpawnDeathField(a.Points(), a.Color)
	log.Printf("actor %s (%s) died: %s, dropped %d food at (%.1f, %.1f)",
		a.Nickname, a.ID, c.Cause, len(dropped), a.DeathPos.X, a.DeathPos.Y)
	return ActorDied{
		ActorID:  a.ID,
		Position: a.DeathPos,
		Food:     dropped,
		Cause:    c.Cause,
		Killer:   c.Killer,
	}
}
