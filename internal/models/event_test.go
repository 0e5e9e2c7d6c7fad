package models

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRequestToEvent(t *testing.T) {
	ticket, magic := int64(123), int64(42)
	symbol, comment, action := "EURUSD", "manual", "MODIFY"
	volume, sl, tp := 0.25, 1.05, 1.10
	typ := 1

	req := EventRequest{
		Ticket: &ticket, Symbol: &symbol, Volume: &volume,
		SL: &sl, TP: &tp, Type: &typ, Magic: &magic,
		Comment: &comment, Action: &action,
	}

	evt := req.ToEvent()
	assert.Equal(t, int64(123), evt.Ticket)
	assert.Equal(t, "EURUSD", evt.Symbol)
	assert.Equal(t, 0.25, evt.Volume)
	assert.Equal(t, OrderTypeSell, evt.Type)
	assert.Equal(t, ActionModify, evt.Action)
	assert.Equal(t, "manual", evt.Comment)
	assert.True(t, evt.IngestedAt.IsZero())
}

func TestWireSchemaCarriesIngestedAt(t *testing.T) {
	stamp := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	evt := PositionEvent{
		Ticket: 7, Symbol: "GBPUSD", Volume: 1.5, Type: OrderTypeSell,
		Action: ActionClose, IngestedAt: stamp,
	}

	raw, err := sonic.Marshal(evt)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &decoded))
	for _, key := range []string{"ticket", "symbol", "volume", "sl", "tp", "type", "magic", "comment", "action", "ingestedAt"} {
		assert.Contains(t, decoded, key)
	}

	// ISO-8601 UTC on the wire
	ts, ok := decoded["ingestedAt"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(stamp))

	var roundTrip PositionEvent
	require.NoError(t, sonic.Unmarshal(raw, &roundTrip))
	assert.True(t, roundTrip.IngestedAt.Equal(stamp))
}
