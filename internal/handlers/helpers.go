package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gpascual/shotbypascual/internal/models"
)

// writeJSON writes data as a JSON response with the given status code
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// sendError writes a JSON error response
func sendError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, models.ErrorResponse{Error: message}, status)
}
