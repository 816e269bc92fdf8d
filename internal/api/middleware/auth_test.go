package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"buildbridge/internal/config"
)

func TestAuthMiddleware(t *testing.T) {
	am := NewAuthMiddleware(config.APIConfig{Keys: []string{"key-1"}})

	var caller string
	handler := am.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller = CallerKey(r)
		w.WriteHeader(http.StatusOK)
	}))

	// Valid key
	req := httptest.NewRequest("GET", "/api/v1/jenkins/status", nil)
	req.Header.Set("Authorization", "Bearer key-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid key, got %d", rec.Code)
	}
	if caller != "key-1" {
		t.Errorf("Expected caller key in context, got %q", caller)
	}

	// Invalid key
	req = httptest.NewRequest("GET", "/api/v1/jenkins/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with invalid key, got %d", rec.Code)
	}

	// Missing header
	req = httptest.NewRequest("GET", "/api/v1/jenkins/status", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with missing key, got %d", rec.Code)
	}
}
