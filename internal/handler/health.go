package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type HealthHandler struct {
	check func(context.Context) error
}

// NewHealthHandler reports unhealthy while check fails. A nil check always passes.
func NewHealthHandler(check func(context.Context) error) *HealthHandler {
	return &HealthHandler{check: check}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		err := h.check(ctx)
		if err != nil {
			slog.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
