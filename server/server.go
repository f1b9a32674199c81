package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"

	"nobiko-server/protocol"
	"nobiko-server/room"
)

// ipRateLimiter tracks the last connection time per IP to prevent abuse.
type ipRateLimiter struct {
	mu       deadlock.Mutex
	cooldown time.Duration
	times    map[string]time.Time
	now      func() time.Time
}

func newIPRateLimiter(cooldown time.Duration) *ipRateLimiter {
	return &ipRateLimiter{
		cooldown: cooldown,
		times:    make(map[string]time.Time),
		now:      time.Now,
	}
}

// allow reports whether ip may connect now, and records the attempt.
func (rl *ipRateLimiter) allow(ip string) bool {
	if rl.cooldown <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	if last, ok := rl.times[ip]; ok && now.Sub(last) < rl.cooldown {
		return false
	}
	rl.times[ip] = now
	return true
}

// sweep forgets entries older than the cooldown.
func (rl *ipRateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.cooldown)
	for ip, t := range rl.times {
		if t.Before(cutoff) {
			delete(rl.times, ip)
		}
	}
}

func (rl *ipRateLimiter) run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// Server accepts websocket sessions and hands them to a room.
type Server struct {
	ctx      context.Context
	inbox    chan<- any
	codec    protocol.Codec
	limiter  *ipRateLimiter
	upgrader websocket.Upgrader
}

// New creates a Server feeding inbox. Background work stops with ctx.
func New(ctx context.Context, inbox chan<- any, codec protocol.Codec, ipCooldown time.Duration) *Server {
	s := &Server{
		ctx:     ctx,
		inbox:   inbox,
		codec:   codec,
		limiter: newIPRateLimiter(ipCooldown),
		upgrader: websocket.Upgrader{
			CheckOrigin:       func(r *http.Request) bool { return true },
			ReadBufferSize:    1024,
			WriteBufferSize:   4096,
			EnableCompression: true,
		},
	}
	go s.limiter.run(ctx)
	return s
}

// clientIP keys the limiter on RemoteAddr. Proxy headers are resolved by
// middleware.RealIP, never trusted here.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// HandleWS upgrades the request and runs the session pumps.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	// checked after upgrade so the client gets a close reason
	if !s.limiter.allow(ip) {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too many connections, slow down"),
			time.Now().Add(writeWait))
		ws.Close()
		return
	}
	ws.EnableWriteCompression(true)

	c := NewClient(uuid.NewString(), ws, s.codec.Binary())
	select {
	case s.inbox <- room.Attach{ID: c.ID, Conn: c}:
	case <-s.ctx.Done():
		ws.Close()
		return
	}
	log.Printf("client connected: %s from %s", c.ID, ip)

	go c.WritePump()
	c.ReadPump(s.ctx, s.inbox, s.codec)
	log.Printf("client disconnected: %s", c.ID)
}

// Stats asks the room for its current numbers.
func (s *Server) Stats(ctx context.Context) (room.Stats, error) {
	reply := make(chan room.Stats, 1)
	select {
	case s.inbox <- room.StatsQuery{Reply: reply}:
	case <-ctx.Done():
		return room.Stats{}, ctx.Err()
	}
	select {
	case st := <-reply:
		return st, nil
	case <-ctx.Done():
		return room.Stats{}, ctx.Err()
	}
}
