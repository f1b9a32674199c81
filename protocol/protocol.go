// Package protocol defines every frame exchanged over a client connection.
//
// A frame is an envelope {"t": name, "p": payload}. High-volume payloads
// (actors, food) use single-character keys and coordinates rounded to one
// decimal place to keep tick updates small:
//
//	ActorState: {"i":"id","n":"NICK","s":[[x,y],...],"p":score,"w":size,"b":1,"cd":ms,"c":"#color","ch":{...}}
//	Food:       {"i":"f12","x":1.5,"y":2.0,"r":3,"v":1,"k":"small","c":"#0f0","ph":1.2}
//	Obstacle:   {"x":100,"y":100,"w":400,"h":20,"c":"#00ff00"}
package protocol

// Client → server
const (
	MsgJoin    = "join"
	MsgMove    = "move"
	MsgChat    = "chat"
	MsgRespawn = "respawnRequest"
)

// Server → client
const (
	MsgJoined          = "joined"
	MsgExistingActors  = "existingActors"
	MsgActorJoined     = "actorJoined"
	MsgActorLeft       = "actorLeft"
	MsgTickUpdate      = "tickUpdate"
	MsgFoodConsumed    = "foodConsumed"
	MsgActorDied       = "actorDied"
	MsgActorRespawned  = "actorRespawned"
	MsgChatBroadcast   = "chatBroadcast"
	MsgPopulationCount = "populationCount"
	MsgServerFull      = "serverFull"
)

// Character is the cosmetic descriptor picked by the client. The server
// stores it verbatim and echoes it to everyone.
type Character struct {
	HeadType       string `json:"headType,omitempty"`
	BodyPattern    string `json:"bodyPattern,omitempty"`
	TailType       string `json:"tailType,omitempty"`
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	UsePngAssets   bool   `json:"usePngAssets,omitempty"`
}

// Point is a rounded world coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ActorState is the broadcast form of an actor.
type ActorState struct {
	ID        string       `json:"i"`
	Nickname  string       `json:"n"`
	Segments  [][2]float64 `json:"s"`
	Score     int          `json:"p"`
	Size      float64      `json:"w"`
	Boosting  int          `json:"b,omitempty"` // 1 if boosting, omitted if not
	Cooldown  int64        `json:"cd,omitempty"`
	Color     string       `json:"c"`
	Character Character    `json:"ch"`
}

// Food is the broadcast form of a food entity.
type Food struct {
	ID    string  `json:"i"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"r"`
	Value int     `json:"v"`
	Kind  string  `json:"k"`
	Color string  `json:"c"`
	Phase float64 `json:"ph"`
}

// Obstacle is a static wall rectangle.
type Obstacle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
	Color  string  `json:"c"`
}

// Joined is the reply to a successful join.
type Joined struct {
	ID          string     `json:"id"`
	Actor       ActorState `json:"actor"`
	WorldWidth  float64    `json:"worldWidth"`
	WorldHeight float64    `json:"worldHeight"`
	Food        []Food     `json:"food"`
	Obstacles   []Obstacle `json:"obstacles"`
}

// ActorList carries existingActors.
type ActorList struct {
	Actors []ActorState `json:"actors"`
}

// ActorLeft carries the id of a departed actor.
type ActorLeft struct {
	ID string `json:"id"`
}

// TickUpdate is the per-tick authoritative snapshot.
type TickUpdate struct {
	Tick      uint64       `json:"tick"`
	Actors    []ActorState `json:"actors"`
	Food      []Food       `json:"food"`
	Obstacles []Obstacle   `json:"obstacles"`
	Timestamp int64        `json:"ts"`
}

// FoodConsumed announces a food removal.
type FoodConsumed struct {
	FoodID  string `json:"foodId"`
	ActorID string `json:"actorId"`
}

// ActorDied announces a death. Killer is empty unless another actor was hit.
type ActorDied struct {
	ActorID   string `json:"actorId"`
	Position  Point  `json:"position"`
	DeathFood []Food `json:"deathFood"`
	Cause     string `json:"cause"`
	Killer    string `json:"killer,omitempty"`
}

// ActorRespawned is sent only to the respawned actor.
type ActorRespawned struct {
	Position Point        `json:"position"`
	Segments [][2]float64 `json:"segments"`
}

// ChatBroadcast is a chat line relayed to everyone.
type ChatBroadcast struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	Message   string `json:"message"`
	Color     string `json:"color"`
	Timestamp int64  `json:"ts"`
}

// PopulationCount is the number of registered actors.
type PopulationCount struct {
	Count int `json:"count"`
}

// ServerFull has no fields.
type ServerFull struct{}
