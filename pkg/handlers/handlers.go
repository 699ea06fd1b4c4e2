// Package handlers provides HTTP response utilities for JSON APIs.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes a JSON response with the given status code and data.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes {"error": "<message>"}.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("handler error", "error", err, "status", status)
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// RespondFieldErrors writes a validation failure as
// {"errors": {"field": "message", ...}} with 422 Unprocessable Entity.
func RespondFieldErrors(w http.ResponseWriter, errs map[string]string) {
	RespondJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
}
