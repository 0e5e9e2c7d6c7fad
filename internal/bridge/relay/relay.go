package relay

import (
	"context"
	"time"

	"copytrade/internal/bridge/config"
	"copytrade/internal/bridge/sink"
	"copytrade/internal/models"
	"copytrade/internal/notify"
	"copytrade/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const pingInterval = 20 * time.Second

// Bridge keeps one subscription to the backend hub alive and mirrors its
// stream into the sink. The loop owns the connection and the backoff counter
// exclusively; nothing else touches them.
type Bridge struct {
	cfg    *config.Config
	dialer *websocket.Dialer
	sink   sink.Sink
	state  *State
	n      notify.Notifier
}

func New(cfg *config.Config, s sink.Sink, st *State, n notify.Notifier) *Bridge {
	return &Bridge{
		cfg:    cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		sink:   s,
		state:  st,
		n:      n,
	}
}

// Run loops connect -> read -> backoff until ctx is cancelled. Connection
// loss is never fatal; backoff doubles per consecutive failure up to the
// ceiling and resets on a successful connect.
func (b *Bridge) Run(ctx context.Context) {
	backoff := b.cfg.InitialBackoff
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		logger.Info("[BRIDGE] connecting to %s", b.cfg.UpstreamWS)
		conn, resp, err := b.dialer.DialContext(ctx, b.cfg.UpstreamWS, nil)
		if err != nil {
			if resp != nil {
				_ = resp.Body.Close()
			}
			logger.Warn("[BRIDGE] dial failed: %v, reconnecting in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff, b.cfg.MaxBackoff)
			continue
		}

		b.state.SetConnected(true)
		b.n.Sendf("bridge connected to backend %s", b.cfg.UpstreamWS)
		backoff = b.cfg.InitialBackoff

		b.readLoop(ctx, conn)

		b.state.SetConnected(false)
		if ctx.Err() != nil {
			return
		}
		b.n.Send("bridge lost backend connection")
		logger.Warn("[BRIDGE] connection lost, reconnecting in %s", backoff)
		if !sleep(ctx, backoff) {
			return
		}
		backoff = nextBackoff(backoff, b.cfg.MaxBackoff)
	}
}

// readLoop consumes frames sequentially until the connection dies or ctx is
// cancelled. One forward failure is logged and dropped; it neither retries
// the message nor touches the connection.
func (b *Bridge) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)

	// unblock ReadMessage on shutdown + keep the socket alive through idle
	// spells
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = conn.Close()
				return
			case <-done:
				return
			case <-t.C:
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("[BRIDGE] read: %v", err)
			}
			_ = conn.Close()
			return
		}

		var evt models.PositionEvent
		if err := sonic.Unmarshal(msg, &evt); err != nil {
			logger.Warn("[BRIDGE] skipping undecodable frame %q: %v", msg, err)
			continue
		}
		b.state.TouchEvent(time.Now())
		logger.Debug("[BRIDGE] received %s %s ticket=%d", evt.Action, evt.Symbol, evt.Ticket)

		fctx, cancel := context.WithTimeout(ctx, b.cfg.ForwardTimeout)
		if err := b.sink.Forward(fctx, evt); err != nil {
			logger.Warn("[BRIDGE] forward dropped ticket=%d: %v", evt.Ticket, err)
		}
		cancel()
	}
}
