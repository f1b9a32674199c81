package server

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"

	"nobiko-server/protocol"
	"nobiko-server/room"
)

const (
	pingInterval = 10 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	maxFrameSize = 4096
	sendBuffer   = 256
)

var (
	ErrClientClosed = errors.New("client closed")
	ErrSlowConsumer = errors.New("client send buffer full")
)

// Client is one websocket session. It satisfies room.Conn; the room writes
// frames into a buffered channel and WritePump drains it to the socket.
type Client struct {
	ID string

	ws     *websocket.Conn
	binary bool
	send   chan []byte
	done   chan struct{}

	mu     deadlock.Mutex // guards closed
	closed bool
}

// NewClient wraps an upgraded connection.
func NewClient(id string, ws *websocket.Conn, binary bool) *Client {
	return &Client{
		ID:     id,
		ws:     ws,
		binary: binary,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Send queues a frame. It never blocks; a full buffer means the client is
// too slow and gets dropped by the room.
func (c *Client) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- b:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// Close stops the write pump. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	return nil
}

// ReadPump decodes frames and forwards them to the room until the socket
// fails, then tells the room the client left.
func (c *Client) ReadPump(ctx context.Context, inbox chan<- any, codec protocol.Codec) {
	defer func() {
		select {
		case inbox <- room.Leave{ID: c.ID}:
		case <-ctx.Done():
		}
		_ = c.Close()
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxFrameSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error for %s: %v", c.ID, err)
			}
			return
		}

		req, err := protocol.DecodeRequest(codec, raw)
		if err != nil {
			log.Printf("bad message from %s: %v", c.ID, err)
			continue
		}
		cmd, ok := room.Command(c.ID, req)
		if !ok {
			continue
		}
		select {
		case inbox <- cmd:
		case <-ctx.Done():
			return
		}
	}
}

// WritePump drains the send buffer and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	kind := websocket.TextMessage
	if c.binary {
		kind = websocket.BinaryMessage
	}

	for {
		select {
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(kind, msg); err != nil {
				log.Printf("ws write error for %s: %v", c.ID, err)
				_ = c.Close()
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
