package sink

import (
	"context"

	"copytrade/internal/bridge/longpoll"
	"copytrade/internal/models"
)

// Queue parks events for pull-only consumers behind GET /events.
type Queue struct {
	q *longpoll.Queue
}

func NewQueue(q *longpoll.Queue) *Queue { return &Queue{q: q} }

func (s *Queue) Forward(ctx context.Context, evt models.PositionEvent) error {
	s.q.Put(evt)
	return nil
}
