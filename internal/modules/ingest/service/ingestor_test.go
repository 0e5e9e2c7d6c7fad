package service

import (
	"context"
	"testing"
	"time"

	"copytrade/internal/models"
	hubservice "copytrade/internal/modules/hub/service"
	recentservice "copytrade/internal/modules/recent/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validRequest() models.EventRequest {
	return models.EventRequest{
		Ticket:  ptr(int64(123)),
		Symbol:  ptr("EURUSD"),
		Volume:  ptr(0.1),
		SL:      ptr(1.05),
		TP:      ptr(1.10),
		Type:    ptr(0),
		Magic:   ptr(int64(42)),
		Comment: ptr(""),
		Action:  ptr("OPEN"),
	}
}

func newIngestor() (*Ingestor, *recentservice.Buffer) {
	buf := recentservice.NewBuffer(10)
	hub := hubservice.NewHub(time.Second)
	return NewIngestor(buf, hub), buf
}

func TestIngestValidEvent(t *testing.T) {
	ing, buf := newIngestor()

	evt, verr := ing.Ingest(context.Background(), validRequest(), []byte("{}"))
	require.Nil(t, verr)

	assert.Equal(t, int64(123), evt.Ticket)
	assert.Equal(t, "EURUSD", evt.Symbol)
	assert.Equal(t, models.ActionOpen, evt.Action)
	assert.Equal(t, models.OrderTypeBuy, evt.Type)
	assert.False(t, evt.IngestedAt.IsZero())
	assert.Equal(t, time.UTC, evt.IngestedAt.Location())

	got := buf.Snapshot(10)
	require.Len(t, got, 1)
	assert.Equal(t, evt, got[0])
}

func TestIngestTimestampsNonDecreasing(t *testing.T) {
	ing, _ := newIngestor()

	var prev time.Time
	for i := 0; i < 50; i++ {
		evt, verr := ing.Ingest(context.Background(), validRequest(), nil)
		require.Nil(t, verr)
		assert.False(t, evt.IngestedAt.Before(prev))
		prev = evt.IngestedAt
	}
}

func TestIngestRejectsMissingAction(t *testing.T) {
	ing, buf := newIngestor()

	req := validRequest()
	req.Action = nil
	raw := []byte(`{"ticket":123}`)

	_, verr := ing.Ingest(context.Background(), req, raw)
	require.NotNil(t, verr)
	assert.Equal(t, string(raw), verr.Body)
	require.Len(t, verr.Detail, 1)
	assert.Equal(t, []string{"body", "action"}, verr.Detail[0].Loc)
	assert.Equal(t, "required", verr.Detail[0].Type)

	// rejected events leave no trace
	assert.Zero(t, buf.Len())
}

func TestIngestRejectsBadDomainValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.EventRequest)
		field  string
		typ    string
	}{
		{"zero volume", func(r *models.EventRequest) { r.Volume = ptr(0.0) }, "volume", "gt"},
		{"negative volume", func(r *models.EventRequest) { r.Volume = ptr(-1.5) }, "volume", "gt"},
		{"unknown action", func(r *models.EventRequest) { r.Action = ptr("UPSERT") }, "action", "oneof"},
		{"unknown order type", func(r *models.EventRequest) { r.Type = ptr(7) }, "type", "oneof"},
		{"missing symbol", func(r *models.EventRequest) { r.Symbol = nil }, "symbol", "required"},
		{"missing sl", func(r *models.EventRequest) { r.SL = nil }, "sl", "required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ing, buf := newIngestor()
			req := validRequest()
			tc.mutate(&req)

			_, verr := ing.Ingest(context.Background(), req, nil)
			require.NotNil(t, verr)
			require.Len(t, verr.Detail, 1)
			assert.Equal(t, []string{"body", tc.field}, verr.Detail[0].Loc)
			assert.Equal(t, tc.typ, verr.Detail[0].Type)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestIngestAllowsZeroStopsAndMagic(t *testing.T) {
	ing, _ := newIngestor()

	req := validRequest()
	req.SL = ptr(0.0)
	req.TP = ptr(0.0)
	req.Magic = ptr(int64(0))
	req.Ticket = ptr(int64(0))

	evt, verr := ing.Ingest(context.Background(), req, nil)
	require.Nil(t, verr)
	assert.Zero(t, evt.SL)
	assert.Zero(t, evt.TP)
	assert.Zero(t, evt.Magic)
}
