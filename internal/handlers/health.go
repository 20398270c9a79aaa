package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/crucial707/blog-api/internal/repo"
)

// HealthHandler serves liveness and readiness checks.
type HealthHandler struct {
	Backends []repo.Pinger
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// Ready pings every backend (store, session store) with a short timeout.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, b := range h.Backends {
		if err := b.PingContext(ctx); err != nil {
			JSONError(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
