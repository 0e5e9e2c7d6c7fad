package service

import "time"

// conn is the slice of *websocket.Conn the hub needs. Narrowed so tests can
// inject broken peers without a live socket.
type conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Subscriber — one live slave connection. Owned by the hub registry from
// Register until Deregister; it never outlives its socket.
type Subscriber struct {
	conn   conn
	remote string
}

func NewSubscriber(c conn, remote string) *Subscriber {
	return &Subscriber{conn: c, remote: remote}
}

func (s *Subscriber) Remote() string { return s.remote }
