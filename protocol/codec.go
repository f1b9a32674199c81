package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Envelope is a decoded frame whose payload is still in codec form.
type Envelope struct {
	T string
	P []byte
}

// Codec turns typed payloads into frames and back.
type Codec interface {
	Name() string
	// Binary reports whether frames must go out as binary websocket messages.
	Binary() bool
	Encode(t string, payload any) ([]byte, error)
	DecodeEnvelope(b []byte) (Envelope, error)
	Unmarshal(p []byte, out any) error
}

// NewCodec returns the codec registered under name ("json" or "msgpack").
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return Msgpack, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

var errEmptyFrame = errors.New("empty frame")

type jsonEnvelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Binary() bool { return false }

func (jsonCodec) Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope with empty type")
	}
	if payload == nil {
		return nil, fmt.Errorf("trying to encode nil payload for %q", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonEnvelope{T: t, P: pb})
}

func (jsonCodec) DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errEmptyFrame
	}
	var e jsonEnvelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	return Envelope{T: e.T, P: e.P}, nil
}

func (jsonCodec) Unmarshal(p []byte, out any) error {
	return json.Unmarshal(p, out)
}

// msgpackEnvelope reuses the json tags so both codecs share one schema.
type msgpackEnvelope struct {
	T string             `json:"t" msgpack:"t"`
	P msgpack.RawMessage `json:"p" msgpack:"p"`
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }
func (msgpackCodec) Binary() bool { return true }

func (msgpackCodec) marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c msgpackCodec) Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope with empty type")
	}
	if payload == nil {
		return nil, fmt.Errorf("trying to encode nil payload for %q", t)
	}
	pb, err := c.marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.marshal(msgpackEnvelope{T: t, P: pb})
}

func (c msgpackCodec) DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errEmptyFrame
	}
	var e msgpackEnvelope
	if err := c.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	return Envelope{T: e.T, P: e.P}, nil
}

func (msgpackCodec) Unmarshal(p []byte, out any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(p))
	dec.SetCustomStructTag("json")
	return dec.Decode(out)
}
