package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gpascual/shotbypascual/internal/config"
	"github.com/gpascual/shotbypascual/internal/mailer"
	"github.com/gpascual/shotbypascual/internal/metrics"
	"github.com/gpascual/shotbypascual/internal/models"
	"github.com/gpascual/shotbypascual/internal/ratelimit"
	"github.com/gpascual/shotbypascual/internal/repository"
	"github.com/gpascual/shotbypascual/internal/utils"
)

const (
	// maxBodySize bounds the request body read. Contact messages are short;
	// anything larger is abuse.
	maxBodySize = 64 * 1024

	// storePingTimeout bounds the pre-flight store check on each submission.
	storePingTimeout = 5 * time.Second
)

// ContactHandler handles the contact form endpoint.
//
// GET answers a liveness probe. POST runs the submission pipeline in a fixed
// order: store ping, rate limit, body validation, owner notification,
// auto-reply. The rate limit is consumed before the body is parsed, so a
// malformed or failed submission still spends a quota slot; that slot is not
// refunded when a later step fails.
func ContactHandler(cfg *config.Config, healthRepo repository.HealthRepository, limiter *ratelimit.Limiter, composer *mailer.Composer, dispatcher mailer.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, models.StatusResponse{Message: "Contact API is running."}, http.StatusOK)
			return
		case http.MethodPost:
			// fall through to the submission pipeline
		default:
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()

		// Pre-flight store check: a submission must not proceed when the
		// rate-limit store is unreachable.
		pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
		err := healthRepo.Ping(pingCtx)
		cancel()
		if err != nil {
			slog.Error("rate limit store unreachable", "error", err)
			metrics.SubmissionsTotal.WithLabelValues("store_failed").Inc()
			sendError(w, "Database connection failed", http.StatusInternalServerError)
			return
		}

		clientID := utils.ClientIdentifier(r, cfg.TrustProxyHeaders, cfg.TrustedProxyIPs)

		decision, err := limiter.CheckAndRecord(ctx, clientID)
		if err != nil {
			// Fail-closed mode: the store error rejects the submission.
			metrics.SubmissionsTotal.WithLabelValues("store_failed").Inc()
			sendError(w, "Database connection failed", http.StatusServiceUnavailable)
			return
		}
		if decision.FailedOpen {
			metrics.RateLimitFailOpenTotal.Inc()
		}
		if !decision.Allowed {
			metrics.RateLimitRejectionsTotal.Inc()
			metrics.SubmissionsTotal.WithLabelValues("rate_limited").Inc()
			sendError(w, "Monthly message limit reached. Please try again next month.", http.StatusTooManyRequests)
			return
		}

		var req models.ContactRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
			sendError(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if req.Name == "" || req.Email == "" || req.Message == "" {
			metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
			sendError(w, "Missing fields", http.StatusBadRequest)
			return
		}

		// Owner notification first; the auto-reply is only attempted once the
		// owner has the inquiry.
		if err := sendEmail(ctx, dispatcher, "owner", composer.OwnerNotification(&req)); err != nil {
			slog.Error("owner notification failed",
				"error", err,
				"client_id", clientID,
			)
			metrics.SubmissionsTotal.WithLabelValues("email_failed").Inc()
			sendError(w, providerMessage(err), http.StatusInternalServerError)
			return
		}

		autoReply, err := composer.AutoReply(&req)
		if err != nil {
			slog.Error("auto-reply composition failed", "error", err)
			metrics.SubmissionsTotal.WithLabelValues("email_failed").Inc()
			sendError(w, "Failed to send email", http.StatusInternalServerError)
			return
		}
		if err := sendEmail(ctx, dispatcher, "autoreply", autoReply); err != nil {
			slog.Error("auto-reply failed",
				"error", err,
				"client_id", clientID,
			)
			metrics.SubmissionsTotal.WithLabelValues("email_failed").Inc()
			sendError(w, providerMessage(err), http.StatusInternalServerError)
			return
		}

		slog.Info("contact submission accepted",
			"client_id", clientID,
			"count", decision.Count,
		)
		metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
		writeJSON(w, models.SubmitResponse{OK: true}, http.StatusOK)
	}
}

// sendEmail dispatches one message and records the attempt in metrics.
func sendEmail(ctx context.Context, dispatcher mailer.Dispatcher, kind string, msg *mailer.Message) error {
	start := time.Now()
	err := dispatcher.Send(ctx, msg)
	metrics.EmailSendDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.EmailsTotal.WithLabelValues(kind, "failure").Inc()
		return err
	}
	metrics.EmailsTotal.WithLabelValues(kind, "success").Inc()
	return nil
}

// providerMessage extracts the provider's own error text for the response
// body, falling back to a generic message for transport-level failures.
func providerMessage(err error) string {
	var provErr *mailer.ProviderError
	if errors.As(err, &provErr) {
		return provErr.Message
	}
	return "Failed to send email"
}
