package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"buildbridge/internal/api/middleware"
	"buildbridge/internal/apperrors"
	"buildbridge/internal/config"
	"buildbridge/internal/engine"
	"buildbridge/internal/logger"
	"buildbridge/internal/params"
	"buildbridge/internal/storage"
	"buildbridge/internal/storage/models"
)

// JenkinsHandler exposes the Jenkins operations over the platform-facing API.
type JenkinsHandler struct {
	engine  engine.BuildEngine
	jenkins config.JenkinsConfig
}

// NewJenkinsHandler creates a new JenkinsHandler instance.
func NewJenkinsHandler(eng engine.BuildEngine, jenkins config.JenkinsConfig) *JenkinsHandler {
	return &JenkinsHandler{
		engine:  eng,
		jenkins: jenkins,
	}
}

// source builds the per-call parameter map: the configured node connection
// with the request-scoped job identifiers layered on top.
func (h *JenkinsHandler) source(job, templateJob string) params.Map {
	src := h.jenkins.Parameters()
	if job != "" {
		src[params.KeyJob] = job
	}
	if templateJob != "" {
		src[params.KeyTemplateJob] = templateJob
	}
	return src
}

// audit records the outcome of a remote operation.
func audit(r *http.Request, operation, job string, err error) {
	entry := models.AuditEntry{
		Timestamp: time.Now(),
		APIKey:    middleware.CallerKey(r),
		Operation: operation,
		Job:       job,
		Outcome:   "success",
	}
	if err != nil {
		entry.Outcome = "failed"
		entry.Error = err.Error()
		if e := apperrors.AsError(err); e != nil {
			entry.Parameter = e.Parameter
			entry.Reason = e.Reason
		}
	}
	if ierr := storage.InsertAuditEntry(entry); ierr != nil {
		logger.Error("Failed to record audit entry", "error", ierr, "operation", operation)
	}
}

// ValidateRequest is the body of POST /api/v1/jenkins/validate.
type ValidateRequest struct {
	Job string `json:"job"`
}

// Validate handles POST /api/v1/jenkins/validate: runs the admin access
// ladder and, when a job is supplied, resolves it too.
func (h *JenkinsHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	src := h.source(req.Job, "")
	version, err := h.engine.ValidateAdminAccess(r.Context(), src)
	if err == nil && req.Job != "" {
		_, err = h.engine.ValidateJob(r.Context(), src)
	}
	audit(r, "validate", req.Job, err)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"version": version})
}

// Version handles GET /api/v1/jenkins/version.
func (h *JenkinsHandler) Version(w http.ResponseWriter, r *http.Request) {
	version, err := h.engine.Version(r.Context(), h.source("", ""))
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	response := map[string]string{"version": version}
	// Best effort: the update center may be unreachable from the bridge
	if last, err := h.engine.LastVersion(r.Context()); err == nil && last != "" {
		response["last_version"] = last
	}
	writeJSON(w, http.StatusOK, response)
}

// Status handles GET /api/v1/jenkins/status: node-level health.
func (h *JenkinsHandler) Status(w http.ResponseWriter, r *http.Request) {
	up, err := h.engine.CheckStatus(r.Context(), h.source("", ""))
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"up": up})
}

// CreateRequest is the body of POST /api/v1/jenkins/jobs.
type CreateRequest struct {
	Job         string `json:"job"`
	TemplateJob string `json:"template_job"`
}

// Jobs handles the exact /api/v1/jenkins/jobs path: GET lists jobs matching
// the name filter, POST creates a job from a template.
func (h *JenkinsHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		criteria := r.URL.Query().Get("name")
		src := h.source("", "")

		var jobs []engine.Job
		var err error
		if r.URL.Query().Get("templates") == "true" {
			jobs, err = h.engine.FindAllTemplateByName(r.Context(), src, criteria)
		} else {
			jobs, err = h.engine.FindAllByName(r.Context(), src, criteria)
		}
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, jobs)

	case http.MethodPost:
		var req CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Job == "" || req.TemplateJob == "" {
			writeError(w, r, http.StatusBadRequest, "job and template_job are required")
			return
		}

		err := h.engine.Create(r.Context(), h.source(req.Job, req.TemplateJob))
		audit(r, "create", req.Job, err)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"job": req.Job})

	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// JobOps handles the /api/v1/jenkins/jobs/{id}[/action] subtree:
//
//	GET    /jobs/{id}         job status
//	GET    /jobs/{id}/status  subscription health with job data
//	POST   /jobs/{id}/build   trigger a build
//	DELETE /jobs/{id}         delete the job (remote=true for server-side)
func (h *JenkinsHandler) JobOps(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/jenkins/jobs/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" || len(parts) > 2 {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		job, err := h.engine.FindByID(r.Context(), h.source("", ""), id)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, job)

	case r.Method == http.MethodGet && action == "status":
		status, err := h.engine.CheckSubscriptionStatus(r.Context(), h.source(id, ""))
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, status)

	case r.Method == http.MethodPost && action == "build":
		err := h.engine.Build(r.Context(), h.source(id, ""))
		audit(r, "build", id, err)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"job": id})

	case r.Method == http.MethodDelete && action == "":
		remote := r.URL.Query().Get("remote") == "true"
		err := h.engine.Delete(r.Context(), h.source(id, ""), remote)
		if remote {
			audit(r, "delete", id, err)
		}
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"job": id, "remote": remote})

	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}
