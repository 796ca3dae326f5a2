package models

import "time"

// RoundTripStatus is the outcome of a round trip
type RoundTripStatus string

const (
	StatusOK     RoundTripStatus = "ok"
	StatusFailed RoundTripStatus = "failed"
)

// RoundTrip represents one click's request/response exchange with the worker
type RoundTrip struct {
	ID           string          `json:"id"`
	Value        int32           `json:"value"`
	Result       int32           `json:"result"`
	Status       RoundTripStatus `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	DurationMs   int64           `json:"duration_ms"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RoundTripFilter contains parameters for filtering round trips.
// StartDate is inclusive and EndDate exclusive.
type RoundTripFilter struct {
	Status    RoundTripStatus
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// RoundTripStats contains aggregated round trip counts
type RoundTripStats struct {
	Total         int64   `json:"total"`
	Succeeded     int64   `json:"succeeded"`
	Failed        int64   `json:"failed"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
}
