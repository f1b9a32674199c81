package game

import (
	"math"
	"time"

	"nobiko-server/protocol"
)

// Segment is one point of a body. Freshly grown segments carry an ease
// counter that softens how hard they are pulled toward their predecessor.
type Segment struct {
	Point
	ease int
}

// Actor is one participant's body and state.
type Actor struct {
	ID        string
	Nickname  string
	Color     string
	Character protocol.Character

	Segments  []Segment // index 0 = head
	Target    Point     // where the head steers toward
	Dir       Point     // last movement direction, unit length
	LastInput time.Time // when Target was last set by the client
	Path      []Point   // recent head positions, oldest first

	Scale   float64
	Size    float64 // collision radius, BaseSize*Scale
	Spacing float64 // preferred inter-segment distance, BaseSpacing*Scale
	Speed   float64 // px per tick before boost

	Alive     bool
	Boosting  bool
	BoostLeft time.Duration
	Cooldown  time.Duration
	Score     int

	DiedAt   time.Time
	DeathPos Point

	staleTicks int
	t          *Tuning
}

func newActor(id, nickname, color string, ch protocol.Character, t *Tuning) *Actor {
	return &Actor{
		ID:        id,
		Nickname:  nickname,
		Color:     color,
		Character: ch,
		t:         t,
	}
}

// reset places a fresh body at spawn facing dir and clears all progress.
func (a *Actor) reset(spawn, dir Point, now time.Time) {
	n := a.t.InitSegments
	if n < 3 {
		n = 3
	}
	a.Segments = make([]Segment, n)
	for i := 0; i < n; i++ {
		a.Segments[i] = Segment{Point: spawn.Sub(dir.Mul(float64(i) * a.t.SpawnSpacing))}
	}
	a.Dir = dir
	a.Target = spawn.Add(dir.Mul(100))
	a.LastInput = now
	a.Path = append(a.Path[:0], spawn)
	a.setScale(1)
	a.Alive = true
	a.Boosting = false
	a.BoostLeft = 0
	a.Cooldown = 0
	a.Score = 0
	a.DiedAt = time.Time{}
	a.DeathPos = Point{}
	a.staleTicks = 0
}

// Head returns the head segment position
func (a *Actor) Head() Point {
	return a.Segments[0].Point
}

// Points copies the body positions.
func (a *Actor) Points() []Point {
	out := make([]Point, len(a.Segments))
	for i, s := range a.Segments {
		out[i] = s.Point
	}
	return out
}

// setScale recomputes everything derived from the scale factor.
func (a *Actor) setScale(s float64) {
	if s > a.t.MaxScale {
		s = a.t.MaxScale
	}
	if s < 1 {
		s = 1
	}
	a.Scale = s
	a.Size = a.t.BaseSize * s
	a.Spacing = a.t.BaseSpacing * s
	a.Speed = a.t.BaseSpeed / s
	if floor := a.t.BaseSpeed * a.t.MinSpeedFrac; a.Speed < floor {
		a.Speed = floor
	}
}

// SetTarget records a new steering target from client input.
func (a *Actor) SetTarget(p Point, now time.Time) {
	a.Target = p
	a.LastInput = now
}

// TryBoost starts a boost if none is running and the cooldown has elapsed.
func (a *Actor) TryBoost() bool {
	if a.Boosting || a.Cooldown > 0 {
		return false
	}
	a.Boosting = true
	a.BoostLeft = a.t.BoostDuration
	return true
}

// tickTimers advances the boost duration and cooldown by dt.
func (a *Actor) tickTimers(dt time.Duration) {
	if a.Boosting {
		a.BoostLeft -= dt
		if a.BoostLeft <= 0 {
			a.Boosting = false
			a.BoostLeft = 0
			a.Cooldown = a.t.BoostCooldown
		}
		return
	}
	if a.Cooldown > 0 {
		a.Cooldown -= dt
		if a.Cooldown < 0 {
			a.Cooldown = 0
		}
	}
}

// direction returns the unit vector the head should travel this tick and
// whether it came from dead-reckoning because input went stale.
func (a *Actor) direction(now time.Time) (Point, bool) {
	if now.Sub(a.LastInput) <= a.t.StaleInput {
		if d := a.Target.Sub(a.Head()); d.Len() > 1 {
			return d.Normalize(), false
		}
		return a.Dir, false
	}
	return a.Dir, true
}

// effectiveSpeed applies boost and, while dead-reckoning, momentum decay.
func (a *Actor) effectiveSpeed() float64 {
	v := a.Speed
	if a.Boosting {
		v *= a.t.BoostMult
	}
	if a.staleTicks > 0 {
		f := math.Pow(a.t.DriftDecay, float64(a.staleTicks))
		if f < a.t.DriftFloor {
			f = a.t.DriftFloor
		}
		v *= f
	}
	return v
}

// propose computes the next head position without committing it.
func (a *Actor) propose(now time.Time) (Point, Point) {
	dir, stale := a.direction(now)
	if stale {
		a.staleTicks++
	} else {
		a.staleTicks = 0
	}
	if dir == (Point{}) {
		dir = Point{X: 1}
	}
	return a.Head().Add(dir.Mul(a.effectiveSpeed())), dir
}

// commit moves the head and lets the body follow.
func (a *Actor) commit(p, dir Point) {
	a.Segments[0].Point = p
	a.Dir = dir
	if len(a.Path) == 0 || Dist(a.Path[len(a.Path)-1], p) > a.t.PathEpsilon {
		a.Path = append(a.Path, p)
		if over := len(a.Path) - a.t.PathCap; a.t.PathCap > 0 && over > 0 {
			a.Path = append(a.Path[:0], a.Path[over:]...)
		}
	}
	a.follow()
}

// follow relaxes the chain: each segment closes part of the gap to its
// predecessor once that gap exceeds the preferred spacing.
func (a *Actor) follow() {
	for i := 1; i < len(a.Segments); i++ {
		seg := &a.Segments[i]
		prev := a.Segments[i-1].Point
		d := prev.Sub(seg.Point)
		dist := d.Len()
		excess := dist - a.Spacing
		if excess > a.t.FollowTol && dist > 0 {
			k := a.t.FollowStiff
			if seg.ease > 0 && a.t.EaseTicks > 0 {
				k *= float64(a.t.EaseTicks-seg.ease+1) / float64(a.t.EaseTicks+1)
			}
			seg.Point = seg.Point.Add(d.Mul(k * excess / dist))
		}
		if seg.ease > 0 {
			seg.ease--
		}
	}
}

// Grow appends one segment per value unit behind the tail, bumps the score
// and scales the body up to the cap.
func (a *Actor) Grow(value int) {
	if value <= 0 {
		return
	}
	n := len(a.Segments)
	tail := a.Segments[n-1].Point
	heading := Point{}
	if n >= 2 {
		heading = tail.Sub(a.Segments[n-2].Point).Normalize()
	}
	if heading == (Point{}) {
		heading = a.Dir.Mul(-1).Normalize()
	}
	if heading == (Point{}) {
		heading = Point{X: -1}
	}

	a.setScale(a.Scale * math.Pow(1+a.t.ScaleStep, float64(value)))
	for i := 0; i < value; i++ {
		tail = tail.Add(heading.Mul(a.Spacing))
		a.Segments = append(a.Segments, Segment{Point: tail, ease: a.t.EaseTicks})
	}
	a.Score += value
}

// kill freezes the body where it is.
func (a *Actor) kill(now time.Time) {
	a.Alive = false
	a.Boosting = false
	a.BoostLeft = 0
	a.DiedAt = now
	a.DeathPos = a.Head()
}

func segmentPairs(segs []Segment) [][2]float64 {
	pairs := make([][2]float64, len(segs))
	for i, s := range segs {
		pairs[i] = [2]float64{roundTo1(s.X), roundTo1(s.Y)}
	}
	return pairs
}

// ToDTO converts the actor to its broadcast form.
func (a *Actor) ToDTO() protocol.ActorState {
	boostInt := 0
	if a.Boosting {
		boostInt = 1
	}
	return protocol.ActorState{
		ID:        a.ID,
		Nickname:  a.Nickname,
		Segments:  segmentPairs(a.Segments),
		Score:     a.Score,
		Size:      roundTo1(a.Size),
		Boosting:  boostInt,
		Cooldown:  a.Cooldown.Milliseconds(),
		Color:     a.Color,
		Character: a.Character,
	}
}
