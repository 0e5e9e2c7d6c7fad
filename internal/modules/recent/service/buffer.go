package service

import (
	"sync"

	"copytrade/internal/models"
)

// Buffer holds the last N ingested events for late-joining subscribers.
// Fixed capacity, FIFO eviction, append atomic under the lock.
type Buffer struct {
	mu    sync.Mutex
	buf   []models.PositionEvent
	size  int
	start int
	count int
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{buf: make([]models.PositionEvent, capacity), size: capacity}
}

// Append stores the event, overwriting the oldest entry when full.
func (b *Buffer) Append(evt models.PositionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := (b.start + b.count) % b.size
	if b.count == b.size {
		b.start = (b.start + 1) % b.size
		b.count--
	}
	b.buf[idx] = evt
	b.count++
}

// Snapshot returns up to limit most recent events, oldest first. Limit is
// clamped to [1, capacity].
func (b *Buffer) Snapshot(limit int) []models.PositionEvent {
	if limit < 1 {
		limit = 1
	}
	if limit > b.size {
		limit = b.size
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	n := limit
	if n > b.count {
		n = b.count
	}
	out := make([]models.PositionEvent, 0, n)
	// последние n в хронологическом порядке
	for i := b.count - n; i < b.count; i++ {
		out = append(out, b.buf[(b.start+i)%b.size])
	}
	return out
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *Buffer) Cap() int { return b.size }
