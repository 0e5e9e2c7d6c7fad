package longpoll

import (
	"context"
	"sync"
	"time"

	"copytrade/internal/models"
	"copytrade/pkg/logger"
)

// Queue adapts the relay's push stream into long-poll pulls. Bounded: when
// full, the oldest queued event is dropped (same recency-wins policy as the
// backend's recent buffer). Every event is handed to at most one Poll call.
type Queue struct {
	mu     sync.Mutex
	items  []models.PositionEvent
	cap    int
	closed bool

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		cap:  capacity,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Put enqueues evt and wakes one waiting Poll. Dropped silently after Close.
func (q *Queue) Put(evt models.PositionEvent) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if len(q.items) == q.cap {
		logger.Warn("[QUEUE] full (%d), dropping oldest ticket=%d", q.cap, q.items[0].Ticket)
		q.items = q.items[1:]
	}
	q.items = append(q.items, evt)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Poll returns everything queued right now, or blocks up to timeout for the
// first arrival. An empty result after the window is a normal outcome.
func (q *Queue) Poll(ctx context.Context, timeout time.Duration) []models.PositionEvent {
	if evts := q.drain(); len(evts) > 0 {
		return evts
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return []models.PositionEvent{}
		case <-q.done:
			return []models.PositionEvent{}
		case <-timer.C:
			return []models.PositionEvent{}
		case <-q.wake:
			// может быть гонка с другим poll — проверяем ещё раз
			if evts := q.drain(); len(evts) > 0 {
				return evts
			}
		}
	}
}

func (q *Queue) drain() []models.PositionEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting events and releases blocked Poll calls with an empty
// result. Already-queued events stay drainable.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.once.Do(func() { close(q.done) })
}
