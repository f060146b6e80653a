package repository

import (
	"context"
	"time"
)

// RateRecord is the persistent usage record for one client identifier.
type RateRecord struct {
	ID          int64
	ClientID    string    // Rate-limiting key derived from the client IP
	Count       int       // Accepted submissions in the current window
	WindowStart time.Time // When the current rolling window began
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RateLimitRepository defines the interface for the persistent per-client
// submission counter. Implementations must serialize CheckAndRecord per
// client so two concurrent submissions cannot both slip under the limit.
type RateLimitRepository interface {
	// CheckAndRecord applies the rolling-window policy for one submission:
	//
	//   - no record for clientID: create one with count 1, window starting now;
	//     allowed
	//   - record older than window: reset to count 1, window starting now;
	//     allowed
	//   - record within window at or over limit: rejected, record untouched
	//   - otherwise: increment count; allowed
	//
	// Returns whether the submission is allowed and the record's count after
	// the call (unchanged on rejection).
	CheckAndRecord(ctx context.Context, clientID string, limit int, window time.Duration) (allowed bool, count int, err error)

	// GetRecord retrieves the record for a client identifier.
	// Returns nil, nil if no record exists.
	GetRecord(ctx context.Context, clientID string) (*RateRecord, error)

	// ResetRecord removes the record for a client identifier.
	// Useful for tests and operator override.
	ResetRecord(ctx context.Context, clientID string) error

	// CleanupExpired removes records whose window started more than the given
	// duration ago. A safety net mirroring a TTL index: correctness does not
	// depend on it because CheckAndRecord resets stale windows itself.
	// Returns the number of records removed.
	CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

// HealthRepository exposes a minimal connectivity check on the backing store.
type HealthRepository interface {
	Ping(ctx context.Context) error
}
