package storage

import (
	"github.com/dgraph-io/ristretto/v2"
	"github.com/mandalnilabja/clickworker/internal/storage/models"
)

// NewRoundTripCache creates the ristretto cache used by Cached.
func NewRoundTripCache() (*ristretto.Cache[string, *models.RoundTrip], error) {
	return ristretto.NewCache(&ristretto.Config[string, *models.RoundTrip]{
		NumCounters: 1e5,
		MaxCost:     1e4,
		BufferItems: 64,
	})
}

// Cached wraps a Storage with a read-through cache for single round trip
// lookups. Round trips are immutable once recorded, so only deletes need to
// invalidate.
type Cached struct {
	Storage
	cache *ristretto.Cache[string, *models.RoundTrip]
}

// NewCached wraps store with cache.
func NewCached(store Storage, cache *ristretto.Cache[string, *models.RoundTrip]) *Cached {
	return &Cached{Storage: store, cache: cache}
}

// RecordRoundTrip stores rt and primes the cache with it.
func (c *Cached) RecordRoundTrip(rt *models.RoundTrip) error {
	if err := c.Storage.RecordRoundTrip(rt); err != nil {
		return err
	}
	c.cache.Set(rt.ID, rt, 1)
	return nil
}

// GetRoundTrip serves from cache, falling back to the wrapped storage.
func (c *Cached) GetRoundTrip(id string) (*models.RoundTrip, error) {
	if rt, ok := c.cache.Get(id); ok {
		return rt, nil
	}

	rt, err := c.Storage.GetRoundTrip(id)
	if err != nil {
		return nil, err
	}
	c.cache.Set(id, rt, 1)
	return rt, nil
}

// DeleteRoundTrips deletes from the wrapped storage and drops every cached entry.
func (c *Cached) DeleteRoundTrips(olderThan string) (int64, error) {
	n, err := c.Storage.DeleteRoundTrips(olderThan)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.cache.Clear()
	}
	return n, nil
}

// Close closes the cache and the wrapped storage.
func (c *Cached) Close() error {
	c.cache.Close()
	return c.Storage.Close()
}
