package storage

import (
	"path/filepath"
	"testing"
	"time"

	"buildbridge/internal/storage/models"
)

func TestCloseNil(t *testing.T) {
	oldDB := db
	db = nil
	defer func() { db = oldDB }()

	if err := Close(); err != nil {
		t.Errorf("Expected nil error for nil db, got %v", err)
	}
}

func TestPingNil(t *testing.T) {
	oldDB := db
	db = nil
	defer func() { db = oldDB }()

	if err := Ping(); err == nil {
		t.Error("Expected error for nil db")
	}
}

func TestAuditRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	if err := Init(dbPath); err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	defer Close()

	entry := models.AuditEntry{
		Timestamp: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		APIKey:    "key-1",
		Operation: "build",
		Job:       "ligoj-bootstrap",
		Outcome:   "failed",
		Parameter: "service:build:jenkins:job",
		Reason:    "jenkins-job",
		Error:     "job not found",
	}
	if err := InsertAuditEntry(entry); err != nil {
		t.Fatalf("Failed to insert audit entry: %v", err)
	}
	if err := InsertAuditEntry(models.AuditEntry{
		Timestamp: time.Now(),
		APIKey:    "key-1",
		Operation: "delete",
		Job:       "ligoj-bootstrap",
		Outcome:   "success",
	}); err != nil {
		t.Fatalf("Failed to insert audit entry: %v", err)
	}

	entries, err := GetAuditEntries(10, 0)
	if err != nil {
		t.Fatalf("Failed to get audit entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	// Newest first
	if entries[0].Operation != "delete" {
		t.Errorf("Expected newest entry first, got %q", entries[0].Operation)
	}
	got := entries[1]
	if got.Operation != "build" || got.Job != "ligoj-bootstrap" || got.Outcome != "failed" {
		t.Errorf("Unexpected entry: %+v", got)
	}
	if got.Parameter != entry.Parameter || got.Reason != entry.Reason {
		t.Errorf("Expected failure classification to round-trip, got %+v", got)
	}
	if !got.Timestamp.Equal(entry.Timestamp) {
		t.Errorf("Expected timestamp %v, got %v", entry.Timestamp, got.Timestamp)
	}
}

func TestGetAuditEntriesPagination(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	if err := Init(dbPath); err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	defer Close()

	for i := 0; i < 5; i++ {
		if err := InsertAuditEntry(models.AuditEntry{
			Timestamp: time.Now(),
			APIKey:    "key-1",
			Operation: "validate",
			Outcome:   "success",
		}); err != nil {
			t.Fatalf("Failed to insert audit entry: %v", err)
		}
	}

	entries, err := GetAuditEntries(2, 2)
	if err != nil {
		t.Fatalf("Failed to get audit entries: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
}
