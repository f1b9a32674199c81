package protocol

import (
	"errors"
	"testing"
)

func TestDecodeRequestJSON(t *testing.T) {
	req, err := DecodeRequest(JSON, []byte(`{"t":"move","p":{"targetX":10.5,"targetY":-3,"boosting":true}}`))
	if err != nil {
		t.Fatalf("decode move: %v", err)
	}
	m, ok := req.(MoveRequest)
	if !ok || m.TargetX != 10.5 || m.TargetY != -3 || !m.Boosting {
		t.Fatalf("move = %#v", req)
	}

	req, err = DecodeRequest(JSON, []byte(`{"t":"join","p":{"nickname":"neo","character":{"headType":"cat","usePngAssets":true}}}`))
	if err != nil {
		t.Fatalf("decode join: %v", err)
	}
	j := req.(JoinRequest)
	if j.Nickname != "neo" || j.Character.HeadType != "cat" || !j.Character.UsePngAssets {
		t.Fatalf("join = %#v", j)
	}

	if req, err = DecodeRequest(JSON, []byte(`{"t":"respawnRequest"}`)); err != nil || req != (RespawnRequest{}) {
		t.Fatalf("respawn = %#v, %v", req, err)
	}
	if req, err = DecodeRequest(JSON, []byte(`{"t":"chat","p":{"message":""}}`)); err != nil || req.(ChatRequest).Message != "" {
		t.Fatalf("empty chat = %#v, %v", req, err)
	}
}

func TestDecodeRequestRejects(t *testing.T) {
	cases := map[string]error{
		`{"t":"move","p":{"targetX":1}}`:                ErrMalformed,
		`{"t":"move","p":{"targetX":"a","targetY":2}}`:  ErrMalformed,
		`{"t":"move","p":{"targetX":null,"targetY":2}}`: ErrMalformed,
		`{"t":"move"}`:                                  ErrMalformed,
		`{"t":"chat","p":{}}`:                           ErrMalformed,
		`{"t":"chat","p":{"message":5}}`:                ErrMalformed,
		`{"t":"teleport","p":{}}`:                       ErrUnknownType,
		`not json`:                                      ErrMalformed,
		``:                                              ErrMalformed,
	}
	for in, want := range cases {
		if _, err := DecodeRequest(JSON, []byte(in)); !errors.Is(err, want) {
			t.Errorf("DecodeRequest(%q) err = %v, want %v", in, err, want)
		}
	}
}

func TestMsgpackFrame(t *testing.T) {
	in := TickUpdate{
		Tick:   42,
		Actors: []ActorState{{
			ID: "a", Nickname: "NEO", Segments: [][2]float64{{1.5, 2}, {3, 4}},
			Score: 7, Size: 8.2, Boosting: 1, Color: "#fff",
		}},
		Food:      []Food{{ID: "f1", X: 1, Y: 2, Size: 3, Value: 1, Kind: "small", Color: "#0f0"}},
		Timestamp: 1700000000000,
	}
	b, err := Msgpack.Encode(MsgTickUpdate, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := Msgpack.DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.T != MsgTickUpdate {
		t.Fatalf("t = %q", env.T)
	}
	var out TickUpdate
	if err := Msgpack.Unmarshal(env.P, &out); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if out.Tick != 42 || len(out.Actors) != 1 || out.Actors[0].Segments[0] != [2]float64{1.5, 2} {
		t.Fatalf("out = %+v", out)
	}
	if out.Food[0] != in.Food[0] || out.Timestamp != in.Timestamp {
		t.Fatalf("food %+v ts %d", out.Food, out.Timestamp)
	}
}

func TestMsgpackMove(t *testing.T) {
	b, err := Msgpack.Encode(MsgMove, map[string]any{"targetX": 100.0, "targetY": 200.0})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	req, err := DecodeRequest(Msgpack, b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m := req.(MoveRequest); m.TargetX != 100 || m.TargetY != 200 || m.Boosting {
		t.Fatalf("move = %#v", m)
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	for _, c := range []Codec{JSON, Msgpack} {
		if _, err := c.Encode("", PopulationCount{}); err == nil {
			t.Errorf("%s: empty type accepted", c.Name())
		}
		if _, err := c.Encode(MsgServerFull, nil); err == nil {
			t.Errorf("%s: nil payload accepted", c.Name())
		}
	}
}

func TestNewCodec(t *testing.T) {
	for name, binary := range map[string]bool{"": false, "json": false, "msgpack": true} {
		c, err := NewCodec(name)
		if err != nil || c.Binary() != binary {
			t.Errorf("NewCodec(%q) = %v, %v", name, c, err)
		}
	}
	if _, err := NewCodec("xml"); err == nil {
		t.Errorf("unknown codec accepted")
	}
}

func TestCompactKeys(t *testing.T) {
	b, err := JSON.Encode(MsgActorJoined, ActorState{ID: "a", Nickname: "N", Segments: [][2]float64{{1, 2}}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"t":"actorJoined","p":{"i":"a","n":"N","s":[[1,2]],"p":0,"w":0,"c":"","ch":{}}}`
	if string(b) != want {
		t.Fatalf("frame = %s\nwant    %s", b, want)
	}
}
