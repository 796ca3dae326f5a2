package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mandalnilabja/clickworker/internal/storage/models"
)

// RecordRoundTrip stores a round trip entry
func (s *Storage) RecordRoundTrip(rt *models.RoundTrip) error {
	if rt == nil {
		return ErrInvalidInput
	}
	switch rt.Status {
	case models.StatusOK, models.StatusFailed:
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidInput, rt.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if rt.ID == "" {
		rt.ID = generateID("rt")
	}
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now()
	}
	// Stored text is compared lexically, so every row shares one offset.
	rt.CreatedAt = rt.CreatedAt.UTC()

	_, err := s.db.Exec(`
		INSERT INTO round_trips (id, value, result, status, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rt.ID, rt.Value, rt.Result, string(rt.Status), nullString(rt.ErrorMessage), rt.DurationMs, rt.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateKey
	}
	return err
}

// GetRoundTrip retrieves a single round trip by ID
func (s *Storage) GetRoundTrip(id string) (*models.RoundTrip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	var rt models.RoundTrip
	var status string
	err := s.db.QueryRow(`
		SELECT id, value, result, status, COALESCE(error_message, ''), duration_ms, created_at
		FROM round_trips WHERE id = ?
	`, id).Scan(&rt.ID, &rt.Value, &rt.Result, &status, &rt.ErrorMessage, &rt.DurationMs, &rt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rt.Status = models.RoundTripStatus(status)
	return &rt, nil
}

// ListRoundTrips retrieves round trips with filtering, newest first
func (s *Storage) ListRoundTrips(filter models.RoundTripFilter) ([]*models.RoundTrip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	query := `SELECT id, value, result, status, COALESCE(error_message, ''), duration_ms, created_at
		FROM round_trips WHERE 1=1`

	var args []any

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.StartDate != nil {
		query += " AND created_at >= ?"
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query += " AND created_at < ?"
		args = append(args, filter.EndDate.UTC())
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*models.RoundTrip
	for rows.Next() {
		var rt models.RoundTrip
		var status string

		err := rows.Scan(&rt.ID, &rt.Value, &rt.Result, &status, &rt.ErrorMessage, &rt.DurationMs, &rt.CreatedAt)
		if err != nil {
			return nil, err
		}

		rt.Status = models.RoundTripStatus(status)
		trips = append(trips, &rt)
	}

	return trips, rows.Err()
}

// GetRoundTripStats aggregates all stored round trips
func (s *Storage) GetRoundTripStats() (*models.RoundTripStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	var stats models.RoundTripStats
	err := s.db.QueryRow(`SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN status = 'ok' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(duration_ms), 0)
		FROM round_trips`).Scan(&stats.Total, &stats.Succeeded, &stats.Failed, &stats.AvgDurationMs)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// DeleteRoundTrips removes round trips older than the specified date (YYYY-MM-DD)
func (s *Storage) DeleteRoundTrips(olderThan string) (int64, error) {
	if _, err := time.Parse("2006-01-02", olderThan); err != nil {
		return 0, fmt.Errorf("%w: date %q", ErrInvalidInput, olderThan)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStorageClosed
	}

	result, err := s.db.Exec("DELETE FROM round_trips WHERE DATE(created_at) < ?", olderThan)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
