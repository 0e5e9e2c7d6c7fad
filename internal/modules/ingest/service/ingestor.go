package service

import (
	"context"
	"sync"
	"time"

	"copytrade/internal/models"
	hubservice "copytrade/internal/modules/hub/service"
	recentservice "copytrade/internal/modules/recent/service"
	"copytrade/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

// Ingestor validates inbound events, stamps them, and pushes them into the
// buffer and the hub. The mutex serializes ingestions, which gives two of the
// delivery guarantees in one shot: the buffer append happens before the
// broadcast of the same event, and every subscriber sees events in one total
// order.
type Ingestor struct {
	mu   sync.Mutex
	last time.Time

	buf *recentservice.Buffer
	hub *hubservice.Hub
}

func NewIngestor(buf *recentservice.Buffer, hub *hubservice.Hub) *Ingestor {
	return &Ingestor{buf: buf, hub: hub}
}

// Ingest returns the stamped event, or a ValidationError that echoes the raw
// body. On validation failure nothing is buffered and nothing is broadcast.
// Subscriber delivery failures never bubble up to the publisher.
func (in *Ingestor) Ingest(ctx context.Context, req models.EventRequest, raw []byte) (models.PositionEvent, *models.ValidationError) {
	span, _ := opentracing.StartSpanFromContext(ctx, "ingest_event")
	defer span.Finish()

	if verr := checkRequest(req, raw); verr != nil {
		logger.Warn("[INGEST] rejected event: %v (raw=%q)", verr, raw)
		span.SetTag("rejected", true)
		return models.PositionEvent{}, verr
	}

	evt := req.ToEvent()

	in.mu.Lock()
	defer in.mu.Unlock()

	now := time.Now().UTC()
	// monotonically non-decreasing in assignment order
	if now.Before(in.last) {
		now = in.last
	}
	in.last = now
	evt.IngestedAt = now

	in.buf.Append(evt)
	in.hub.Broadcast(evt)

	logger.Info("[INGEST] %s %s lot=%g ticket=%d magic=%d comment=%q",
		evt.Action, evt.Symbol, evt.Volume, evt.Ticket, evt.Magic, evt.Comment)
	return evt, nil
}
