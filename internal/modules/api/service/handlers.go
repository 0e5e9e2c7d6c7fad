package service

import (
	"io"
	"net/http"
	"strconv"

	"copytrade/internal/models"
	hubservice "copytrade/internal/modules/hub/service"
	ingestservice "copytrade/internal/modules/ingest/service"
	recentservice "copytrade/internal/modules/recent/service"
	"copytrade/pkg/logger"

	"github.com/bytedance/sonic"
)

type Handlers struct {
	ing *ingestservice.Ingestor
	buf *recentservice.Buffer
	hub *hubservice.Hub
}

func NewHandlers(ing *ingestservice.Ingestor, buf *recentservice.Buffer, hub *hubservice.Hub) *Handlers {
	return &Handlers{ing: ing, buf: buf, hub: hub}
}

func NewMux(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", h.handleEvents)
	mux.HandleFunc("/recent", h.handleRecent)
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/ws", h.hub.ServeWS)
	return mux
}

func (h *Handlers) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	logger.Debug("[API] raw event body from %s: %q", r.RemoteAddr, raw)

	var req models.EventRequest
	if err := sonic.Unmarshal(raw, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, models.ValidationError{
			Detail: []models.FieldError{{Loc: []string{"body"}, Msg: err.Error(), Type: "json_decode"}},
			Body:   string(raw),
		})
		return
	}

	if _, verr := h.ing.Ingest(r.Context(), req, raw); verr != nil {
		writeJSON(w, http.StatusUnprocessableEntity, verr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := h.buf.Cap()
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	evts := h.buf.Snapshot(limit)
	writeJSON(w, http.StatusOK, evts)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"clients":         h.hub.Clients(),
		"events_buffered": h.buf.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		logger.Error("[API] marshal response: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
