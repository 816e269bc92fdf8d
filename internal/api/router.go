// Package api wires the HTTP surface: routing, middleware chain and handlers.
package api

import (
	"net/http"

	"buildbridge/internal/api/handlers"
	"buildbridge/internal/api/middleware"
	"buildbridge/internal/config"
	"buildbridge/internal/engine"
	"buildbridge/internal/storage"
)

// Router represents the API router
type Router struct {
	mux         *http.ServeMux
	maxBodySize int64
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, eng engine.BuildEngine) *Router {
	mux := http.NewServeMux()

	jenkinsHandler := handlers.NewJenkinsHandler(eng, cfg.Jenkins)
	auditHandler := handlers.NewAuditHandler()

	authMiddleware := middleware.NewAuthMiddleware(cfg.API)

	// Public routes
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := storage.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Protected routes
	protect := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Middleware(h)
	}
	mux.Handle("/api/v1/jenkins/validate", protect(jenkinsHandler.Validate))
	mux.Handle("/api/v1/jenkins/version", protect(jenkinsHandler.Version))
	mux.Handle("/api/v1/jenkins/status", protect(jenkinsHandler.Status))
	mux.Handle("/api/v1/jenkins/jobs", protect(jenkinsHandler.Jobs))
	mux.Handle("/api/v1/jenkins/jobs/", protect(jenkinsHandler.JobOps))
	mux.Handle("/api/v1/audit", protect(auditHandler.GetAuditEntries))

	return &Router{
		mux:         mux,
		maxBodySize: cfg.Server.MaxBodySize,
	}
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := chainMiddleware(
		r.mux,
		middleware.RequestIDMiddleware,
		middleware.LimitBodySize(r.maxBodySize),
	)
	handler.ServeHTTP(w, req)
}

// chainMiddleware chains multiple middleware functions together
func chainMiddleware(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
