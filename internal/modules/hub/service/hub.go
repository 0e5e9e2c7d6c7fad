package service

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"copytrade/internal/models"
	"copytrade/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// Hub fans one serialized event out to every live subscriber. One failed
// write removes that subscriber and never touches the rest of the pass.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}

	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

func NewHub(writeTimeout time.Duration) *Hub {
	return &Hub{
		subs:         make(map[*Subscriber]struct{}),
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) Register(s *Subscriber) {
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	logger.Info("[HUB] subscriber connected: %s (total %d)", s.remote, h.Clients())
}

func (h *Hub) Deregister(s *Subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

// Clients is the current registry size, for /health.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast serializes evt once and writes it to a point-in-time copy of the
// registry. Failed subscribers are collected during the pass and removed
// after it; nobody gets a partial payload because each write is a single
// websocket text frame.
func (h *Hub) Broadcast(evt models.PositionEvent) {
	payload, err := sonic.Marshal(evt)
	if err != nil {
		logger.Error("[HUB] marshal event ticket=%d: %v", evt.Ticket, err)
		return
	}

	h.mu.Lock()
	targets := make([]*Subscriber, 0, len(h.subs))
	for s := range h.subs {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	var dead []*Subscriber
	for _, s := range targets {
		_ = s.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			if expectedDisconnect(err) {
				logger.Debug("[HUB] subscriber %s gone: %v", s.remote, err)
			} else {
				logger.Warn("[HUB] write to %s failed: %v", s.remote, err)
			}
			dead = append(dead, s)
		}
	}

	for _, s := range dead {
		h.Deregister(s)
		_ = s.conn.Close()
	}
}

// ServeWS upgrades the request and hands the connection to the registry.
// Inbound frames are a liveness signal only.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("[HUB] upgrade %s: %v", r.RemoteAddr, err)
		return
	}
	sub := NewSubscriber(ws, r.RemoteAddr)
	h.Register(sub)
	go h.readLoop(sub, ws)
}

func (h *Hub) readLoop(sub *Subscriber, ws *websocket.Conn) {
	defer func() {
		h.Deregister(sub)
		_ = ws.Close()
		logger.Info("[HUB] subscriber disconnected: %s (total %d)", sub.remote, h.Clients())
	}()
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if !expectedDisconnect(err) {
				logger.Warn("[HUB] read from %s: %v", sub.remote, err)
			}
			return
		}
		logger.Debug("[HUB] frame from %s ignored: %q", sub.remote, msg)
	}
}

// expectedDisconnect separates a peer going away from a genuine write bug,
// so the latter is not silently absorbed.
func expectedDisconnect(err error) bool {
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
		websocket.CloseAbnormalClosure) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, net.ErrClosed)
}
