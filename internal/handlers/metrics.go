package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
