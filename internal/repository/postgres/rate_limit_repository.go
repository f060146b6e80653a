package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gpascual/shotbypascual/internal/repository"
)

// RateLimitRepository implements repository.RateLimitRepository for PostgreSQL.
type RateLimitRepository struct {
	pool *Pool
}

// NewRateLimitRepository creates a new PostgreSQL rate limit repository.
func NewRateLimitRepository(pool *Pool) *RateLimitRepository {
	return &RateLimitRepository{pool: pool}
}

// Maximum allowed limit value to prevent configuration errors.
const maxLimit = 10000

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
// Uses SELECT ... FOR UPDATE so concurrent submissions for the same client
// serialize on the row instead of racing read-then-write.
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

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var existingCount int
	var existingWindowStart time.Time
	var exists bool

	query := `SELECT message_count, window_start FROM rate_limits WHERE client_id = $1 FOR UPDATE`
	err = tx.QueryRow(ctx, query, clientID).Scan(&existingCount, &existingWindowStart)
	if err == pgx.ErrNoRows {
		exists = false
	} else if err != nil {
		return false, 0, fmt.Errorf("failed to query rate limit: %w", err)
	} else {
		exists = true
	}

	var newCount int
	switch {
	case !exists:
		// FOR UPDATE cannot lock a row that does not exist yet, so two first
		// submissions can race here; the upsert keeps the count accurate.
		insertQuery := `INSERT INTO rate_limits (client_id, message_count, window_start, created_at, updated_at)
			VALUES ($1, 1, $2, $2, $2)
			ON CONFLICT (client_id) DO UPDATE SET message_count = rate_limits.message_count + 1, updated_at = $2
			RETURNING message_count`
		if err := tx.QueryRow(ctx, insertQuery, clientID, now).Scan(&newCount); err != nil {
			return false, 0, fmt.Errorf("failed to create rate limit record: %w", err)
		}

	case now.Sub(existingWindowStart) >= window:
		// Window rolled over: fresh window counting this submission
		newCount = 1
		updateQuery := `UPDATE rate_limits SET message_count = 1, window_start = $1, updated_at = $1 WHERE client_id = $2`
		if _, err := tx.Exec(ctx, updateQuery, now, clientID); err != nil {
			return false, 0, fmt.Errorf("failed to reset rate limit record: %w", err)
		}

	case existingCount >= limit:
		// Limit reached: reject without touching the record
		return false, existingCount, nil

	default:
		newCount = existingCount + 1
		updateQuery := `UPDATE rate_limits SET message_count = $1, updated_at = $2 WHERE client_id = $3`
		if _, err := tx.Exec(ctx, updateQuery, newCount, now, clientID); err != nil {
			return false, 0, fmt.Errorf("failed to increment rate limit record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, newCount, nil
}

// GetRecord retrieves the record for a client identifier.
// Returns nil, nil if no record exists.
func (r *RateLimitRepository) GetRecord(ctx context.Context, clientID string) (*repository.RateRecord, error) {
	query := `SELECT id, client_id, message_count, window_start, created_at, updated_at
		FROM rate_limits WHERE client_id = $1`

	var record repository.RateRecord
	err := r.pool.QueryRow(ctx, query, clientID).Scan(
		&record.ID,
		&record.ClientID,
		&record.Count,
		&record.WindowStart,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limit record: %w", err)
	}

	return &record, nil
}

// ResetRecord removes the record for a client identifier.
func (r *RateLimitRepository) ResetRecord(ctx context.Context, clientID string) error {
	query := `DELETE FROM rate_limits WHERE client_id = $1`

	if _, err := r.pool.Exec(ctx, query, clientID); err != nil {
		return fmt.Errorf("failed to reset rate limit record: %w", err)
	}

	return nil
}

// CleanupExpired removes records whose window started more than olderThan ago.
// Returns the number of records removed.
func (r *RateLimitRepository) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	query := `DELETE FROM rate_limits WHERE window_start < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired rate limit records: %w", err)
	}

	rowsAffected := result.RowsAffected()
	if rowsAffected > 0 {
		slog.Debug("cleaned up expired rate limit records", "count", rowsAffected)
	}

	return rowsAffected, nil
}

// Ensure RateLimitRepository implements repository.RateLimitRepository.
var _ repository.RateLimitRepository = (*RateLimitRepository)(nil)
