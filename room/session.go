package room

import (
	"errors"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"nobiko-server/game"
	"nobiko-server/protocol"
)

func (r *Room) handleJoin(c Join, now time.Time) {
	if _, ok := r.clients[c.ID]; !ok {
		return
	}
	if _, exists := r.world.Actor(c.ID); exists {
		return
	}

	nick := SanitizeNickname(c.Nickname, r.opts.NicknameMaxLen)
	a, err := r.world.Spawn(c.ID, nick, r.world.RandomColor(), c.Character, now)
	if errors.Is(err, game.ErrWorldFull) {
		log.Printf("rejecting %s (%s): world is full", nick, c.ID)
		r.sendTo(c.ID, protocol.MsgServerFull, protocol.ServerFull{})
		return
	}
	if err != nil {
		log.Printf("join %s: %v", c.ID, err)
		return
	}

	r.sendTo(c.ID, protocol.MsgJoined, protocol.Joined{
		ID:          a.ID,
		Actor:       a.ToDTO(),
		WorldWidth:  r.world.Tuning.WorldWidth,
		WorldHeight: r.world.Tuning.WorldHeight,
		Food:        r.world.FoodDTOs(),
		Obstacles:   r.world.ObstacleDTOs(),
	})

	others := make([]protocol.ActorState, 0, r.world.Len())
	for _, o := range r.world.Actors() {
		if o.ID == a.ID || len(o.Segments) == 0 {
			continue
		}
		others = append(others, o.ToDTO())
	}
	r.sendTo(c.ID, protocol.MsgExistingActors, protocol.ActorList{Actors: others})
	r.broadcastExcept(c.ID, protocol.MsgActorJoined, a.ToDTO())
	r.broadcastPopulation()

	log.Printf("actor %s (%s) joined, %d registered", nick, a.ID, r.world.Len())
}

func (r *Room) handleMove(c Move, now time.Time) {
	cl, ok := r.clients[c.ID]
	if !ok {
		return
	}
	a, ok := r.world.Actor(c.ID)
	if !ok || !a.Alive {
		return
	}
	if !cl.lastMove.IsZero() && now.Sub(cl.lastMove) < r.opts.MoveInterval {
		return
	}
	cl.lastMove = now

	target := ClampTarget(a.Head(), game.Point{X: c.TargetX, Y: c.TargetY}, r.opts.MaxTargetDelta)
	if r.world.Tuning.Bounded {
		m := r.opts.TargetMargin
		target.X = clampRange(target.X, m, r.world.Tuning.WorldWidth-m)
		target.Y = clampRange(target.Y, m, r.world.Tuning.WorldHeight-m)
	}
	a.SetTarget(target, now)

	if c.Boosting && a.TryBoost() {
		log.Printf("actor %s (%s) boosting", a.Nickname, a.ID)
	}
}

// ClampTarget pulls target onto the circle of radius maxDelta around head
// when it lies farther away. Targets at exactly maxDelta pass unchanged.
func ClampTarget(head, target game.Point, maxDelta float64) game.Point {
	if maxDelta <= 0 {
		return target
	}
	d := target.Sub(head)
	dist := d.Len()
	if dist <= maxDelta {
		return target
	}
	return head.Add(d.Mul(maxDelta / dist))
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (r *Room) handleChat(c Chat, now time.Time) {
	cl, ok := r.clients[c.ID]
	if !ok {
		return
	}
	a, ok := r.world.Actor(c.ID)
	if !ok {
		return
	}
	if utf8.RuneCountInString(c.Message) > r.opts.ChatMaxLen {
		return
	}
	msg := strings.TrimSpace(c.Message)
	if msg == "" {
		return
	}
	if !cl.lastChat.IsZero() && now.Sub(cl.lastChat) < r.opts.ChatInterval {
		return
	}
	cl.lastChat = now

	clean := FilterChat(msg)
	r.broadcast(protocol.MsgChatBroadcast, protocol.ChatBroadcast{
		ID:        uuid.NewString(),
		Nickname:  a.Nickname,
		Message:   clean,
		Color:     a.Color,
		Timestamp: now.UnixMilli(),
	})
	log.Printf("chat %s: %s", a.Nickname, clean)
}

func (r *Room) handleRespawn(c Respawn, now time.Time) {
	if _, ok := r.clients[c.ID]; !ok {
		return
	}
	a, ok := r.world.Respawn(c.ID, now)
	if !ok {
		return
	}
	dto := a.ToDTO()
	r.sendTo(c.ID, protocol.MsgActorRespawned, protocol.ActorRespawned{
		Position: protocol.Point{X: dto.Segments[0][0], Y: dto.Segments[0][1]},
		Segments: dto.Segments,
	})
}

func (r *Room) handleLeave(id string) {
	if c, ok := r.clients[id]; ok {
		delete(r.clients, id)
		delete(r.failed, id)
		_ = c.conn.Close()
	}
	dropped, ok := r.world.Disconnect(id)
	if !ok {
		return
	}
	log.Printf("actor %s left, dropped %d food, %d registered", id, len(dropped), r.world.Len())
	r.broadcast(protocol.MsgActorLeft, protocol.ActorLeft{ID: id})
	r.broadcastPopulation()
}

const anonymous = "ANONYMOUS"

// SanitizeNickname keeps only letters, digits and underscores, uppercases
// the result and truncates it to limit characters.
func SanitizeNickname(raw string, limit int) string {
	if limit <= 0 {
		limit = 12
	}
	var b strings.Builder
	n := 0
	for _, ch := range strings.ToUpper(raw) {
		if n >= limit {
			break
		}
		if ch == '_' || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
			n++
		}
	}
	if n == 0 {
		return anonymous
	}
	return b.String()
}

var denylist = regexp.MustCompile(`(?i)fuck|shit|damn|hell|ass`)

// FilterChat masks denylisted words.
func FilterChat(msg string) string {
	return denylist.ReplaceAllString(msg, "****")
}
