package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"buildbridge/internal/api/middleware"
	"buildbridge/internal/apperrors"
	"buildbridge/internal/logger"
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err, "status", status)
	}
}

// writeError writes a standardized error response with optional request ID.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	response := map[string]any{
		"error":  message,
		"status": http.StatusText(status),
	}
	if r != nil {
		if requestID := middleware.GetRequestID(r); requestID != "" {
			response["request_id"] = requestID
		}
	}
	writeJSON(w, status, response)
}

// writeEngineError maps a classified engine error onto the HTTP surface:
// validation errors carry the offending parameter and reason code so the
// platform can surface them verbatim; business errors are upstream failures.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	if e := apperrors.AsError(err); e != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			response := map[string]any{
				"error":     e.Message,
				"parameter": e.Parameter,
				"reason":    e.Reason,
			}
			if requestID := middleware.GetRequestID(r); requestID != "" {
				response["request_id"] = requestID
			}
			writeJSON(w, http.StatusUnprocessableEntity, response)
			return
		case errors.Is(err, apperrors.ErrBusiness):
			writeError(w, r, http.StatusBadGateway, e.Message)
			return
		}
	}
	writeError(w, r, http.StatusInternalServerError, "internal error")
}
