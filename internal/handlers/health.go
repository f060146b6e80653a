package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gpascual/shotbypascual/internal/metrics"
	"github.com/gpascual/shotbypascual/internal/repository"
)

// Health check timeout for the store ping
const healthCheckTimeout = 5 * time.Second

// HealthResponse is the detailed health report for GET /health.
type HealthResponse struct {
	Status        string            `json:"status"`
	Timestamp     string            `json:"timestamp"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Database      string            `json:"database"`
	Checks        map[string]string `json:"checks"`
}

// setHealthCacheHeaders sets appropriate cache-control headers for health endpoints.
// Health checks should never be cached to ensure accurate probe responses.
func setHealthCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}

// HealthHandler reports process health: uptime and store reachability.
// Returns 200 when healthy, 503 when the store ping fails.
func HealthHandler(repos *repository.Repositories, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setHealthCacheHeaders(w)

		if r.Method != http.MethodGet {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := HealthResponse{
			Status:        "healthy",
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			UptimeSeconds: int64(time.Since(startTime).Seconds()),
			Database:      repos.DatabaseType,
			Checks:        map[string]string{},
		}

		httpCode := http.StatusOK
		if err := repos.Health.Ping(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Checks["database"] = "unreachable: " + err.Error()
			httpCode = http.StatusServiceUnavailable
		} else {
			resp.Checks["database"] = "ok"
		}

		metrics.HealthChecksTotal.WithLabelValues(resp.Status).Inc()
		if resp.Status == "healthy" {
			metrics.HealthStatus.Set(1)
		} else {
			metrics.HealthStatus.Set(0)
		}

		writeJSON(w, resp, httpCode)
	}
}
