// Package storage provides the storage interface and implementations.
package storage

import (
	"github.com/mandalnilabja/clickworker/internal/storage/models"
	"github.com/mandalnilabja/clickworker/internal/storage/sqlite"
)

// Re-export types from models package for convenience
type (
	RoundTrip       = models.RoundTrip
	RoundTripFilter = models.RoundTripFilter
	RoundTripStats  = models.RoundTripStats
	RoundTripStatus = models.RoundTripStatus
)

// Re-export round trip statuses
const (
	StatusOK     = models.StatusOK
	StatusFailed = models.StatusFailed
)

// Re-export errors from sqlite package
var (
	ErrNotFound      = sqlite.ErrNotFound
	ErrDuplicateKey  = sqlite.ErrDuplicateKey
	ErrInvalidInput  = sqlite.ErrInvalidInput
	ErrStorageClosed = sqlite.ErrStorageClosed
)

// Storage defines the interface for persistent data storage
type Storage interface {
	// Round trip history
	RecordRoundTrip(rt *models.RoundTrip) error
	GetRoundTrip(id string) (*models.RoundTrip, error)
	ListRoundTrips(filter models.RoundTripFilter) ([]*models.RoundTrip, error)
	GetRoundTripStats() (*models.RoundTripStats, error)
	DeleteRoundTrips(olderThan string) (int64, error)

	// Maintenance operations
	Close() error
}

// Open creates the SQLite-backed storage at dbPath.
func Open(dbPath string) (*sqlite.Storage, error) {
	return sqlite.New(dbPath)
}
