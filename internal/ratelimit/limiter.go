// Package ratelimit enforces the per-client monthly submission quota on top
// of a persistent rate-limit repository.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/gpascual/shotbypascual/internal/repository"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed    bool
	Count      int  // Record count after the check (unchanged on rejection)
	FailedOpen bool // Set when the store errored and the fail-open mode allowed the submission
}

// Limiter applies the rolling-window policy with a configurable failure mode.
// The repository serializes updates per client; the limiter owns policy:
// limit, window length, and what to do when the store errors.
type Limiter struct {
	repo     repository.RateLimitRepository
	limit    int
	window   time.Duration
	failOpen bool

	cleanup  *time.Ticker
	stopChan chan struct{}
}

// New creates a Limiter. failOpen controls behavior when the store errors
// during a check: true allows the submission through (availability over
// strictness), false reports the error to the caller.
func New(repo repository.RateLimitRepository, limit int, window time.Duration, failOpen bool) *Limiter {
	return &Limiter{
		repo:     repo,
		limit:    limit,
		window:   window,
		failOpen: failOpen,
		stopChan: make(chan struct{}),
	}
}

// CheckAndRecord decides whether a submission from clientID is allowed and
// records it. On store errors the configured failure mode applies: fail-open
// returns an allowed Decision with a nil error after logging, fail-closed
// surfaces the error.
func (l *Limiter) CheckAndRecord(ctx context.Context, clientID string) (Decision, error) {
	allowed, count, err := l.repo.CheckAndRecord(ctx, clientID, l.limit, l.window)
	if err != nil {
		if l.failOpen {
			// Deliberate availability-over-strictness tradeoff; the error is
			// surfaced to operators here rather than to the client.
			slog.Error("rate limit check failed, allowing submission",
				"error", err,
				"client_id", clientID,
			)
			return Decision{Allowed: true, FailedOpen: true}, nil
		}
		slog.Error("rate limit check failed, rejecting submission",
			"error", err,
			"client_id", clientID,
		)
		return Decision{}, err
	}

	if !allowed {
		slog.Warn("monthly message limit reached",
			"client_id", clientID,
			"limit", l.limit,
			"count", count,
		)
	}

	return Decision{Allowed: allowed, Count: count}, nil
}

// StartCleanup launches a background worker that periodically removes records
// whose window expired more than a full window ago. This is a safety net, not
// load-bearing: CheckAndRecord already resets stale windows on contact.
func (l *Limiter) StartCleanup(interval time.Duration) {
	l.cleanup = time.NewTicker(interval)
	go l.cleanupWorker()
}

func (l *Limiter) cleanupWorker() {
	for {
		select {
		case <-l.cleanup.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			count, err := l.repo.CleanupExpired(ctx, l.window)
			if err != nil {
				slog.Error("failed to cleanup expired rate limit records", "error", err)
			} else if count > 0 {
				slog.Debug("cleaned up expired rate limit records", "count", count)
			}
			cancel()
		case <-l.stopChan:
			l.cleanup.Stop()
			return
		}
	}
}

// Stop stops the cleanup worker if it was started.
func (l *Limiter) Stop() {
	close(l.stopChan)
}
