package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"copytrade/internal/bridge/config"
	"copytrade/internal/bridge/longpoll"
	"copytrade/internal/bridge/relay"
	"copytrade/internal/models"
	"copytrade/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/fx"
)

type eventsResponse struct {
	OK     bool                   `json:"ok"`
	Events []models.PositionEvent `json:"events"`
}

// NewMux serves the bridge-local endpoints: the slave EA polls GET /events,
// monitoring reads GET /health.
func NewMux(cfg *config.Config, q *longpoll.Queue, st *relay.State) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		evts := q.Poll(r.Context(), cfg.PollWindow)
		if evts == nil {
			evts = []models.PositionEvent{}
		}
		writeJSON(w, eventsResponse{OK: true, Events: evts})
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"ok":        true,
			"status":    "bridge up",
			"connected": st.Connected(),
			"queued":    q.Len(),
			"uptimeSec": int64(st.Uptime().Seconds()),
			"lastEventUnix": func() int64 {
				t := st.LastEvent()
				if t.IsZero() {
					return 0
				}
				return t.Unix()
			}(),
		})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// Run serves the mux through the fx lifecycle, same shape as the backend's
// HTTP runner.
func Run(lc fx.Lifecycle, cfg *config.Config, mux *http.ServeMux) {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.ListenAddr)
			if err != nil {
				return err
			}
			logger.Info("[BRIDGE] http listening on %s", cfg.ListenAddr)
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
