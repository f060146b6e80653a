package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counter metrics (monotonically increasing)
var (
	// SubmissionsTotal counts contact form submissions by outcome
	// (accepted, rate_limited, invalid, email_failed, store_failed)
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shotbypascual_submissions_total",
			Help: "Total number of contact form submissions",
		},
		[]string{"status"},
	)

	// EmailsTotal counts outbound email attempts by kind (owner, autoreply)
	// and status (success, failure)
	EmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shotbypascual_emails_total",
			Help: "Total number of outbound email dispatch attempts",
		},
		[]string{"kind", "status"},
	)

	// RateLimitRejectionsTotal counts submissions rejected by the monthly quota
	RateLimitRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shotbypascual_rate_limit_rejections_total",
			Help: "Total number of submissions rejected by the rate limiter",
		},
	)

	// RateLimitFailOpenTotal counts limiter store errors that were allowed through
	RateLimitFailOpenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shotbypascual_rate_limit_fail_open_total",
			Help: "Total number of submissions allowed because the rate limit store errored",
		},
	)

	// HTTPRequestsTotal counts total HTTP requests by method, path, and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shotbypascual_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

// Histogram metrics (distributions)
var (
	// HTTPRequestDuration tracks HTTP request latency by method and path
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shotbypascual_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// EmailSendDuration tracks provider round-trip time per email kind
	EmailSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shotbypascual_email_send_duration_seconds",
			Help:    "Email provider send latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		},
		[]string{"kind"},
	)
)

// Health check metrics
var (
	// HealthStatus is a gauge representing current health status
	// Values: 0 = unhealthy, 1 = healthy
	HealthStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shotbypascual_health_status",
			Help: "Current health status (0=unhealthy, 1=healthy)",
		},
	)

	// HealthChecksTotal counts total health check calls by status
	HealthChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shotbypascual_health_checks_total",
			Help: "Total number of health checks performed",
		},
		[]string{"status"},
	)
)
