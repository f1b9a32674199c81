package protocol

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMalformed marks client frames that fail shape validation.
	ErrMalformed = errors.New("malformed message")
	// ErrUnknownType marks frames with an unrecognized "t".
	ErrUnknownType = errors.New("unknown message type")
)

// JoinRequest asks for an actor.
type JoinRequest struct {
	Nickname  string
	Character Character
}

// MoveRequest carries a validated steering target.
type MoveRequest struct {
	TargetX  float64
	TargetY  float64
	Boosting bool
}

// ChatRequest carries an unfiltered chat line.
type ChatRequest struct {
	Message string
}

// RespawnRequest has no fields.
type RespawnRequest struct{}

type joinWire struct {
	Nickname  string    `json:"nickname"`
	Character Character `json:"character"`
}

type moveWire struct {
	TargetX  *float64 `json:"targetX"`
	TargetY  *float64 `json:"targetY"`
	Boosting bool     `json:"boosting"`
}

type chatWire struct {
	Message *string `json:"message"`
}

// DecodeRequest decodes one client frame into JoinRequest, MoveRequest,
// ChatRequest or RespawnRequest. Shape errors wrap ErrMalformed.
func DecodeRequest(c Codec, b []byte) (any, error) {
	env, err := c.DecodeEnvelope(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.T {
	case MsgJoin:
		var w joinWire
		if len(env.P) > 0 {
			if err := c.Unmarshal(env.P, &w); err != nil {
				return nil, fmt.Errorf("%w: join: %v", ErrMalformed, err)
			}
		}
		return JoinRequest{Nickname: w.Nickname, Character: w.Character}, nil

	case MsgMove:
		var w moveWire
		if len(env.P) == 0 {
			return nil, fmt.Errorf("%w: move: empty payload", ErrMalformed)
		}
		if err := c.Unmarshal(env.P, &w); err != nil {
			return nil, fmt.Errorf("%w: move: %v", ErrMalformed, err)
		}
		if w.TargetX == nil || w.TargetY == nil {
			return nil, fmt.Errorf("%w: move: missing coordinate", ErrMalformed)
		}
		if !isFinite(*w.TargetX) || !isFinite(*w.TargetY) {
			return nil, fmt.Errorf("%w: move: non-finite coordinate", ErrMalformed)
		}
		return MoveRequest{TargetX: *w.TargetX, TargetY: *w.TargetY, Boosting: w.Boosting}, nil

	case MsgChat:
		var w chatWire
		if len(env.P) == 0 {
			return nil, fmt.Errorf("%w: chat: empty payload", ErrMalformed)
		}
		if err := c.Unmarshal(env.P, &w); err != nil {
			return nil, fmt.Errorf("%w: chat: %v", ErrMalformed, err)
		}
		if w.Message == nil {
			return nil, fmt.Errorf("%w: chat: missing message", ErrMalformed)
		}
		return ChatRequest{Message: *w.Message}, nil

	case MsgRespawn:
		return RespawnRequest{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.T)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
