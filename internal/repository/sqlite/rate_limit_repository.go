package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/gpascual/shotbypascual/internal/repository"
)

// RateLimitRepository implements repository.RateLimitRepository for SQLite.
type RateLimitRepository struct {
	db *sql.DB
}

// NewRateLimitRepository creates a new SQLite rate limit repository.
func NewRateLimitRepository(db *sql.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// Maximum allowed limit value to prevent configuration errors.
const maxLimit = 10000

// validateClientID checks the rate-limiting key. The key is opaque (it may be
// a forwarded-for value or the "unknown" sentinel), so only shape is checked.
func validateClientID(clientID string) error {
	if clientID == "" {
		return fmt.Errorf("%w: client id cannot be empty", repository.ErrInvalidInput)
	}
	if len(clientID) > 128 {
		return fmt.Errorf("%w: client id too long", repository.ErrInvalidInput)
	}
	return nil
}

// CheckAndRecord applies the rolling-window policy for one submission.
//
// The lookup and update run in a single transaction so concurrent submissions
// for the same client serialize on the row instead of racing read-then-write.
func (r *RateLimitRepository) CheckAndRecord(ctx context.Context, clientID string, limit int, window time.Duration) (bool, int, error) {
	if err := validateClientID(clientID); err != nil {
		return false, 0, err
	}
	if limit <= 0 {
		return false, 0, fmt.Errorf("%w: limit must be positive", repository.ErrInvalidInput)
	}
	if limit > maxLimit {
		return false, 0, fmt.Errorf("%w: limit exceeds maximum of %d", repository.ErrInvalidInput, maxLimit)
	}
	if window <= 0 {
		return false, 0, fmt.Errorf("%w: window must be positive", repository.ErrInvalidInput)
	}

	now := time.Now().UTC()
	nowRFC3339 := now.Format(time.RFC3339)

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return false, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingCount int
	var existingWindowStart string
	var exists bool

	query := `SELECT message_count, window_start FROM rate_limits WHERE client_id = ?`
	err = tx.QueryRowContext(ctx, query, clientID).Scan(&existingCount, &existingWindowStart)
	if err == sql.ErrNoRows {
		exists = false
	} else if err != nil {
		return false, 0, fmt.Errorf("failed to query rate limit: %w", err)
	} else {
		exists = true
	}

	var newCount int
	switch {
	case !exists:
		// First submission from this client
		newCount = 1
		insertQuery := `INSERT INTO rate_limits (client_id, message_count, window_start, created_at, updated_at) VALUES (?, 1, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, insertQuery, clientID, nowRFC3339, nowRFC3339, nowRFC3339); err != nil {
			return false, 0, fmt.Errorf("failed to create rate limit record: %w", err)
		}

	default:
		windowStart, err := parseTimestamp(existingWindowStart)
		if err != nil {
			return false, 0, fmt.Errorf("failed to parse window_start: %w", err)
		}

		if now.Sub(windowStart) >= window {
			// Window rolled over: a fresh window counting this submission,
			// not an extension of the old one
			newCount = 1
			updateQuery := `UPDATE rate_limits SET message_count = 1, window_start = ?, updated_at = ? WHERE client_id = ?`
			if _, err := tx.ExecContext(ctx, updateQuery, nowRFC3339, nowRFC3339, clientID); err != nil {
				return false, 0, fmt.Errorf("failed to reset rate limit record: %w", err)
			}
		} else if existingCount >= limit {
			// Limit reached: reject without touching the record.
			// Nothing was written, so the deferred rollback is a no-op.
			return false, existingCount, nil
		} else {
			newCount = existingCount + 1
			updateQuery := `UPDATE rate_limits SET message_count = ?, updated_at = ? WHERE client_id = ?`
			if _, err := tx.ExecContext(ctx, updateQuery, newCount, nowRFC3339, clientID); err != nil {
				return false, 0, fmt.Errorf("failed to increment rate limit record: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, newCount, nil
}

// GetRecord retrieves the record for a client identifier.
// Returns nil, nil if no record exists.
func (r *RateLimitRepository) GetRecord(ctx context.Context, clientID string) (*repository.RateRecord, error) {
	query := `SELECT id, client_id, message_count, window_start, created_at, updated_at
		FROM rate_limits WHERE client_id = ?`

	var record repository.RateRecord
	var windowStart, createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, clientID).Scan(
		&record.ID,
		&record.ClientID,
		&record.Count,
		&windowStart,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limit record: %w", err)
	}

	record.WindowStart, err = parseTimestamp(windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to parse window_start: %w", err)
	}

	record.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	record.UpdatedAt, err = parseTimestamp(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &record, nil
}

// ResetRecord removes the record for a client identifier.
func (r *RateLimitRepository) ResetRecord(ctx context.Context, clientID string) error {
	query := `DELETE FROM rate_limits WHERE client_id = ?`

	if _, err := r.db.ExecContext(ctx, query, clientID); err != nil {
		return fmt.Errorf("failed to reset rate limit record: %w", err)
	}

	return nil
}

// CleanupExpired removes records whose window started more than olderThan ago.
// Returns the number of records removed.
func (r *RateLimitRepository) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	query := `DELETE FROM rate_limits WHERE window_start < ?`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired rate limit records: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		slog.Debug("cleaned up expired rate limit records", "count", rowsAffected)
	}

	return rowsAffected, nil
}

// parseTimestamp attempts to parse a timestamp string from SQLite
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Try alternate SQLite format
		t, err = time.Parse("2006-01-02 15:04:05", s)
	}
	return t, err
}

// Ensure RateLimitRepository implements repository.RateLimitRepository.
var _ repository.RateLimitRepository = (*RateLimitRepository)(nil)
