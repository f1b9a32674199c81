package room

import "nobiko-server/protocol"

// Conn is the transport side of one client. Send must not block for long;
// an error makes the room drop the client.
type Conn interface {
	Send([]byte) error
	Close() error
}

// Attach registers a freshly connected client for broadcasts.
type Attach struct {
	ID   string
	Conn Conn
}

// Join asks for an actor on an attached connection.
type Join struct {
	ID string
	protocol.JoinRequest
}

// Move carries a validated steering update.
type Move struct {
	ID string
	protocol.MoveRequest
}

// Chat carries a chat line.
type Chat struct {
	ID string
	protocol.ChatRequest
}

// Respawn asks to revive a dead actor.
type Respawn struct {
	ID string
}

// Leave is issued on disconnect.
type Leave struct {
	ID string
}

// StatsQuery asks the room for a Stats snapshot. Reply must be buffered;
// the room never blocks on it.
type StatsQuery struct {
	Reply chan<- Stats
}

// Stats is a point-in-time summary of the room.
type Stats struct {
	Clients    int    `json:"clients"`
	Population int    `json:"population"`
	Alive      int    `json:"alive"`
	Food       int    `json:"food"`
	Tick       uint64 `json:"tick"`
}

// Command wraps a decoded client request into the matching room command.
func Command(id string, req any) (any, bool) {
	switch r := req.(type) {
	case protocol.JoinRequest:
		return Join{ID: id, JoinRequest: r}, true
	case protocol.MoveRequest:
		return Move{ID: id, MoveRequest: r}, true
	case protocol.ChatRequest:
		return Chat{ID: id, ChatRequest: r}, true
	case protocol.RespawnRequest:
		return Respawn{ID: id}, true
	}
	return nil, false
}
