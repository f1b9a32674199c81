package game

// Death causes
const (
	CauseWall   = "wall collision"
	CausePlayer = "player collision"
	CauseSelf   = "self collision"
)

// Collision is the outcome of a fatal check.
type Collision struct {
	Cause  string
	Killer string // id of the actor that was hit, CausePlayer only
}

// checkCollision decides whether moving a's head to p is fatal. Checks run
// wall, other actors, self; the first hit wins.
func (w *World) checkCollision(a *Actor, p Point) (Collision, bool) {
	t := &w.Tuning

	if t.Bounded {
		if p.X < a.Size || p.X > t.WorldWidth-a.Size ||
			p.Y < a.Size || p.Y > t.WorldHeight-a.Size {
			return Collision{Cause: CauseWall}, true
		}
	}
	for _, o := range w.Obstacles {
		if o.ContainsInflated(p, a.Size) {
			return Collision{Cause: CauseWall}, true
		}
	}

	for _, id := range w.order {
		other, ok := w.actors[id]
		if !ok || other == a || !other.Alive {
			continue
		}
		reach := (a.Size + other.Size) * t.Leniency
		for _, seg := range other.Segments {
			if Dist(p, seg.Point) < reach {
				return Collision{Cause: CausePlayer, Killer: other.ID}, true
			}
		}
	}

	start := t.SelfSkip
	if start < 1 {
		start = 1
	}
	reach := a.Size * t.Leniency
	for i := start; i < len(a.Segments); i++ {
		if Dist(p, a.Segments[i].Point) < reach {
			return Collision{Cause: CauseSelf}, true
		}
	}
	return Collision{}, false
}
