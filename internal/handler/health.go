package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and backend health.
type HealthHandler struct {
	backend string
	pinger  Pinger
}

// NewHealthHandler creates a new HealthHandler. pinger may be nil.
func NewHealthHandler(backend string, pinger Pinger) *HealthHandler {
	return &HealthHandler{backend: backend, pinger: pinger}
}

// HandleHealthz responds with 200 and {"status":"ok"} while the backend is
// reachable, 503 otherwise.
// GET /healthz
func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			slog.Error("health check", "backend", h.backend, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "backend": h.backend})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "backend": h.backend})
}
