package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/clickworker/internal/transport/http/handler/shared"
)

// HealthCheck handler returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"status":         "active",
		"app":            "clickworker",
		"uptime_seconds": int64(time.Since(h.StartTime).Seconds()),
	}, http.StatusOK)
}
