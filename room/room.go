package room

import (
	"context"
	"log"
	"time"

	"nobiko-server/game"
	"nobiko-server/protocol"
)

// Options are the session-level limits enforced at the input boundary.
type Options struct {
	MoveInterval   time.Duration // move updates closer together are ignored
	MaxTargetDelta float64       // targets farther than this from the head are pulled in
	TargetMargin   float64       // bounded worlds keep targets this far inside the edge
	ChatInterval   time.Duration
	ChatMaxLen     int
	NicknameMaxLen int
}

// DefaultOptions returns the stock limits.
func DefaultOptions() Options {
	return Options{
		MoveInterval:   50 * time.Millisecond,
		MaxTargetDelta: 1000,
		TargetMargin:   50,
		ChatInterval:   time.Second,
		ChatMaxLen:     100,
		NicknameMaxLen: 12,
	}
}

type client struct {
	conn     Conn
	lastMove time.Time
	lastChat time.Time
}

// Room owns a World and every client attached to it. All state is touched
// only from the Run goroutine; other goroutines talk to it through Inbox.
type Room struct {
	Inbox chan any

	world   *game.World
	codec   protocol.Codec
	opts    Options
	clients map[string]*client
	failed  map[string]struct{}
	clock   func() time.Time
}

// New creates a room around w. Frames are encoded with codec.
func New(w *game.World, codec protocol.Codec, opts Options) *Room {
	return &Room{
		Inbox:   make(chan any, 256),
		world:   w,
		codec:   codec,
		opts:    opts,
		clients: make(map[string]*client),
		failed:  make(map[string]struct{}),
		clock:   time.Now,
	}
}

// Run processes commands and ticks until ctx is cancelled.
func (r *Room) Run(ctx context.Context) {
	ticker := time.NewTicker(r.world.Tuning.TickInterval())
	defer ticker.Stop()
	log.Printf("room started at %d ticks/sec (%.0fx%.0f, bounded=%v, %d obstacles)",
		r.world.Tuning.TickRate, r.world.Tuning.WorldWidth, r.world.Tuning.WorldHeight,
		r.world.Tuning.Bounded, len(r.world.Obstacles))

	for {
		select {
		case <-ctx.Done():
			for id, c := range r.clients {
				_ = c.conn.Close()
				delete(r.clients, id)
			}
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-ticker.C:
			r.step(r.clock())
		}
	}
}

func (r *Room) handleCommand(cmd any) {
	now := r.clock()
	switch c := cmd.(type) {
	case Attach:
		r.clients[c.ID] = &client{conn: c.Conn}
		r.broadcastPopulation()
	case Join:
		r.handleJoin(c, now)
	case Move:
		r.handleMove(c, now)
	case Chat:
		r.handleChat(c, now)
	case Respawn:
		r.handleRespawn(c, now)
	case Leave:
		r.handleLeave(c.ID)
	case StatsQuery:
		select {
		case c.Reply <- r.stats():
		default:
			log.Printf("room: stats reply dropped, caller not ready")
		}
	default:
		log.Printf("room: ignoring unknown command %T", cmd)
	}
	r.reap()
}

func (r *Room) stats() Stats {
	return Stats{
		Clients:    len(r.clients),
		Population: r.world.Len(),
		Alive:      r.world.AliveCount(),
		Food:       r.world.Food.Len(),
		Tick:       r.world.Tick(),
	}
}

// step runs one simulation tick and publishes its results.
func (r *Room) step(now time.Time) {
	for _, ev := range r.world.Step(now) {
		switch e := ev.(type) {
		case game.FoodConsumed:
			r.broadcast(protocol.MsgFoodConsumed, protocol.FoodConsumed{FoodID: e.FoodID, ActorID: e.ActorID})
		case game.ActorDied:
			r.broadcast(protocol.MsgActorDied, actorDied(e))
		case game.ActorDropped:
			r.broadcast(protocol.MsgActorLeft, protocol.ActorLeft{ID: e.ActorID})
			r.broadcastPopulation()
		}
	}
	r.broadcast(protocol.MsgTickUpdate, r.world.Snapshot(now))
	r.reap()
}

func actorDied(e game.ActorDied) protocol.ActorDied {
	food := make([]protocol.Food, len(e.Food))
	for i, f := range e.Food {
		food[i] = f.ToDTO()
	}
	return protocol.ActorDied{
		ActorID:   e.ActorID,
		Position:  protocol.Point{X: e.Position.X, Y: e.Position.Y},
		DeathFood: food,
		Cause:     e.Cause,
		Killer:    e.Killer,
	}
}

// sendTo encodes and sends one frame to a single client.
func (r *Room) sendTo(id string, t string, payload any) {
	c, ok := r.clients[id]
	if !ok {
		return
	}
	b, err := r.codec.Encode(t, payload)
	if err != nil {
		log.Printf("encode %s: %v", t, err)
		return
	}
	if err := c.conn.Send(b); err != nil {
		r.failed[id] = struct{}{}
	}
}

// broadcast encodes once and sends to every attached client.
func (r *Room) broadcast(t string, payload any) {
	r.broadcastExcept("", t, payload)
}

func (r *Room) broadcastExcept(skip string, t string, payload any) {
	if len(r.clients) == 0 {
		return
	}
	b, err := r.codec.Encode(t, payload)
	if err != nil {
		log.Printf("encode %s: %v", t, err)
		return
	}
	for id, c := range r.clients {
		if id == skip {
			continue
		}
		if err := c.conn.Send(b); err != nil {
			r.failed[id] = struct{}{}
		}
	}
}

func (r *Room) broadcastPopulation() {
	r.broadcast(protocol.MsgPopulationCount, protocol.PopulationCount{Count: r.world.Len()})
}

// reap disconnects every client whose send failed, as if it had left.
func (r *Room) reap() {
	for len(r.failed) > 0 {
		for id := range r.failed {
			delete(r.failed, id)
			log.Printf("dropping client %s: send failed", id)
			r.handleLeave(id)
		}
	}
}
