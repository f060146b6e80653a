// Package mock provides in-memory repository implementations for testing.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/gpascual/shotbypascual/internal/repository"
)

// RateLimitRepository is a mock implementation of repository.RateLimitRepository.
// It stores records in memory and provides configurable error injection.
//
// Set injection fields BEFORE any concurrent operations begin; they are not
// protected by the mutex.
type RateLimitRepository struct {
	mu      sync.Mutex
	records map[string]*repository.RateRecord
	nextID  int64

	// Error injection for testing
	CheckAndRecordError error
	GetRecordError      error
	ResetRecordError    error
	CleanupError        error

	// Call counters
	CheckAndRecordCalls int
	CleanupCalls        int

	// Now overrides the clock when set
	Now func() time.Time
}

// NewRateLimitRepository creates an empty mock rate limit repository.
func NewRateLimitRepository() *RateLimitRepository {
	return &RateLimitRepository{
		records: make(map[string]*repository.RateRecord),
	}
}

func (m *RateLimitRepository) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// CheckAndRecord applies the same rolling-window policy as the real backends.
func (m *RateLimitRepository) CheckAndRecord(ctx context.Context, clientID string, limit int, window time.Duration) (bool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CheckAndRecordCalls++

	if m.CheckAndRecordError != nil {
		return false, 0, m.CheckAndRecordError
	}

	now := m.now()

	record, ok := m.records[clientID]
	if !ok {
		m.nextID++
		m.records[clientID] = &repository.RateRecord{
			ID:          m.nextID,
			ClientID:    clientID,
			Count:       1,
			WindowStart: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return true, 1, nil
	}

	if now.Sub(record.WindowStart) >= window {
		record.Count = 1
		record.WindowStart = now
		record.UpdatedAt = now
		return true, 1, nil
	}

	if record.Count >= limit {
		return false, record.Count, nil
	}

	record.Count++
	record.UpdatedAt = now
	return true, record.Count, nil
}

// GetRecord retrieves a copy of the record, or nil if absent.
func (m *RateLimitRepository) GetRecord(ctx context.Context, clientID string) (*repository.RateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetRecordError != nil {
		return nil, m.GetRecordError
	}

	record, ok := m.records[clientID]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

// ResetRecord removes the record for a client identifier.
func (m *RateLimitRepository) ResetRecord(ctx context.Context, clientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ResetRecordError != nil {
		return m.ResetRecordError
	}

	delete(m.records, clientID)
	return nil
}

// CleanupExpired removes records whose window started more than olderThan ago.
func (m *RateLimitRepository) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CleanupCalls++

	if m.CleanupError != nil {
		return 0, m.CleanupError
	}

	cutoff := m.now().Add(-olderThan)
	var removed int64
	for clientID, record := range m.records {
		if record.WindowStart.Before(cutoff) {
			delete(m.records, clientID)
			removed++
		}
	}
	return removed, nil
}

// CheckAndRecordCallCount returns how many times CheckAndRecord was called.
func (m *RateLimitRepository) CheckAndRecordCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CheckAndRecordCalls
}

// CleanupCallCount returns how many times CleanupExpired was called.
func (m *RateLimitRepository) CleanupCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CleanupCalls
}

// Ensure RateLimitRepository implements repository.RateLimitRepository.
var _ repository.RateLimitRepository = (*RateLimitRepository)(nil)

// HealthRepository is a mock implementation of repository.HealthRepository.
type HealthRepository struct {
	PingError error
}

// Ping returns the injected error, if any.
func (m *HealthRepository) Ping(ctx context.Context) error {
	return m.PingError
}

var _ repository.HealthRepository = (*HealthRepository)(nil)
