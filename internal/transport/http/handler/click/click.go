// Package click exposes the "submit work" trigger over HTTP.
package click

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/clickworker/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/clickworker/internal/transport/http/middleware"
	"github.com/mandalnilabja/clickworker/internal/ui"
)

// Controller is the part of ui.Controller the click handlers use.
type Controller interface {
	Submit() (string, error)
	State() ui.State
}

// Handlers holds the dependencies for click HTTP handlers.
type Handlers struct {
	Controller Controller
	Logger     *slog.Logger
}

// New creates a new instance of click handlers.
func New(ctrl Controller, logger *slog.Logger) *Handlers {
	return &Handlers{
		Controller: ctrl,
		Logger:     logger,
	}
}

// Click starts a round trip (POST /api/click). It answers before the
// worker does; the new count arrives over /ws or GET /api/count.
func (h *Handlers) Click(w http.ResponseWriter, r *http.Request) {
	id, err := h.Controller.Submit()
	if errors.Is(err, ui.ErrClosed) {
		shared.WriteJSONError(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		shared.WriteJSONError(w, "failed to submit work", http.StatusInternalServerError)
		return
	}

	h.Logger.Debug("work submitted",
		"round_trip_id", id,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	shared.WriteJSON(w, map[string]any{
		"id":    id,
		"count": h.Controller.State().Count,
	}, http.StatusAccepted)
}

// Count returns the display state (GET /api/count).
func (h *Handlers) Count(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, h.Controller.State(), http.StatusOK)
}
