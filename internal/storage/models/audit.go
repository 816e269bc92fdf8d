package models

import (
	"time"
)

// AuditEntry records one remote operation against the Jenkins server.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	APIKey    string    `json:"api_key"`
	Operation string    `json:"operation"` // validate, build, create, delete, ...
	Job       string    `json:"job,omitempty"`
	Outcome   string    `json:"outcome"` // success or failed
	// Parameter and Reason carry the classification of validation failures.
	Parameter string `json:"parameter,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}
