package handlers

import (
	"net/http"
	"strconv"

	"buildbridge/internal/storage"
)

// AuditHandler handles audit trail API requests
type AuditHandler struct{}

// NewAuditHandler creates a new AuditHandler instance
func NewAuditHandler() *AuditHandler {
	return &AuditHandler{}
}

// GetAuditEntries handles the GET /api/v1/audit request
func (h *AuditHandler) GetAuditEntries(w http.ResponseWriter, r *http.Request) {
	limit := 100
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	entries, err := storage.GetAuditEntries(limit, offset)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to get audit entries")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
