package longpoll

import (
	"context"
	"sync"
	"testing"
	"time"

	"copytrade/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evt(ticket int64) models.PositionEvent {
	return models.PositionEvent{Ticket: ticket, Symbol: "EURUSD", Volume: 0.1, Action: models.ActionOpen}
}

func TestPollTimesOutEmpty(t *testing.T) {
	q := New(10)

	start := time.Now()
	got := q.Poll(context.Background(), 50*time.Millisecond)
	elapsed := time.Since(start)

	assert.Empty(t, got)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestPollReturnsImmediatelyWhenQueued(t *testing.T) {
	q := New(10)
	q.Put(evt(1))
	q.Put(evt(2))
	q.Put(evt(3))

	start := time.Now()
	got := q.Poll(context.Background(), time.Second)
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	require.Len(t, got, 3)
	assert.Equal(t, int64(1), got[0].Ticket)
	assert.Equal(t, int64(3), got[2].Ticket)

	// уже отданное не возвращается второй раз
	assert.Empty(t, q.Poll(context.Background(), 20*time.Millisecond))
}

func TestPollWakesOnArrival(t *testing.T) {
	q := New(10)

	go func() {
		time.Sleep(30 * time.Millisecond)
		q.Put(evt(7))
	}()

	start := time.Now()
	got := q.Poll(context.Background(), 2*time.Second)
	elapsed := time.Since(start)

	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].Ticket)
	// returned at arrival time, not at the window's end
	assert.Less(t, elapsed, time.Second)
}

func TestNoEventDeliveredTwice(t *testing.T) {
	q := New(100)

	const pollers = 4
	results := make([][]models.PositionEvent, pollers)
	var wg sync.WaitGroup
	for i := 0; i < pollers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = q.Poll(context.Background(), 500*time.Millisecond)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	q.Put(evt(42))
	wg.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	assert.Equal(t, 1, total)
}

func TestPutDropsOldestWhenFull(t *testing.T) {
	q := New(2)
	q.Put(evt(1))
	q.Put(evt(2))
	q.Put(evt(3))

	got := q.Poll(context.Background(), 10*time.Millisecond)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Ticket)
	assert.Equal(t, int64(3), got[1].Ticket)
}

func TestCloseReleasesBlockedPoll(t *testing.T) {
	q := New(10)

	done := make(chan []models.PositionEvent, 1)
	go func() {
		done <- q.Poll(context.Background(), 5*time.Second)
	}()

	time.Sleep(30 * time.Millisecond)
	q.Close()

	select {
	case got := <-done:
		assert.Empty(t, got)
	case <-time.After(time.Second):
		t.Fatal("poll did not return after Close")
	}

	// writes after Close are dropped
	q.Put(evt(9))
	assert.Zero(t, q.Len())
}

func TestPollHonorsContextCancel(t *testing.T) {
	q := New(10)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	got := q.Poll(ctx, 5*time.Second)
	assert.Empty(t, got)
	assert.Less(t, time.Since(start), time.Second)
}
