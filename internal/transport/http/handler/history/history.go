// Package history serves the recorded round trips.
package history

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mandalnilabja/clickworker/internal/storage"
	"github.com/mandalnilabja/clickworker/internal/transport/http/handler/shared"
)

const maxLimit = 500

// Handlers holds the dependencies for round trip history handlers.
type Handlers struct {
	Storage storage.Storage
}

// New creates a new instance of history handlers.
func New(store storage.Storage) *Handlers {
	return &Handlers{Storage: store}
}

// List returns round trips, newest first (GET /api/roundtrips).
// Query: status=ok|failed, limit, offset, start_date, end_date (YYYY-MM-DD,
// both days included).
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := storage.RoundTripFilter{Limit: 50}
	switch status := storage.RoundTripStatus(q.Get("status")); status {
	case "", storage.StatusOK, storage.StatusFailed:
		filter.Status = status
	default:
		shared.WriteJSONError(w, "status must be ok or failed", http.StatusBadRequest)
		return
	}

	var err error
	if filter.Limit, err = intParam(q.Get("limit"), filter.Limit); err != nil || filter.Limit > maxLimit {
		shared.WriteJSONError(w, "invalid limit", http.StatusBadRequest)
		return
	}
	if filter.Offset, err = intParam(q.Get("offset"), 0); err != nil {
		shared.WriteJSONError(w, "invalid offset", http.StatusBadRequest)
		return
	}

	if filter.StartDate, err = dateParam(q.Get("start_date")); err != nil {
		shared.WriteJSONError(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	end, err := dateParam(q.Get("end_date"))
	if err != nil {
		shared.WriteJSONError(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if end != nil {
		if filter.StartDate != nil && end.Before(*filter.StartDate) {
			shared.WriteJSONError(w, "end_date is before start_date", http.StatusBadRequest)
			return
		}
		next := end.AddDate(0, 0, 1)
		filter.EndDate = &next
	}

	trips, err := h.Storage.ListRoundTrips(filter)
	if err != nil {
		shared.WriteJSONError(w, "failed to list round trips", http.StatusInternalServerError)
		return
	}
	if trips == nil {
		trips = []*storage.RoundTrip{}
	}

	shared.WriteJSON(w, map[string]any{
		"round_trips": trips,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	}, http.StatusOK)
}

// Get returns one round trip (GET /api/roundtrips/{id}).
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	rt, err := h.Storage.GetRoundTrip(r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		shared.WriteJSONError(w, "round trip not found", http.StatusNotFound)
		return
	}
	if err != nil {
		shared.WriteJSONError(w, "failed to get round trip", http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, rt, http.StatusOK)
}

// Stats returns aggregate counts (GET /api/roundtrips/stats).
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Storage.GetRoundTripStats()
	if err != nil {
		shared.WriteJSONError(w, "failed to get stats", http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, stats, http.StatusOK)
}

// Delete removes round trips recorded before older_than (DELETE /api/roundtrips).
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	olderThan := r.URL.Query().Get("older_than")
	if olderThan == "" {
		shared.WriteJSONError(w, "older_than parameter is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	n, err := h.Storage.DeleteRoundTrips(olderThan)
	if errors.Is(err, storage.ErrInvalidInput) {
		shared.WriteJSONError(w, "older_than must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err != nil {
		shared.WriteJSONError(w, "failed to delete round trips", http.StatusInternalServerError)
		return
	}

	shared.WriteJSON(w, map[string]any{"deleted": n}, http.StatusOK)
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer")
	}
	return n, nil
}

func dateParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
