package relay

import (
	"sync/atomic"
	"time"
)

// State is the bridge's observable condition for /health.
type State struct {
	startedAt time.Time

	connected     atomic.Bool
	lastEventUnix atomic.Int64 // unix seconds
}

func NewState() *State {
	return &State{startedAt: time.Now()}
}

func (s *State) SetConnected(v bool) { s.connected.Store(v) }
func (s *State) Connected() bool     { return s.connected.Load() }

func (s *State) TouchEvent(t time.Time) { s.lastEventUnix.Store(t.Unix()) }
func (s *State) LastEvent() time.Time {
	u := s.lastEventUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
