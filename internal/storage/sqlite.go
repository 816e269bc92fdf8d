// Package storage keeps the audit trail of remote operations in SQLite.
package storage

import (
	"database/sql"
	"time"

	"buildbridge/internal/logger"
	"buildbridge/internal/storage/models"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

const timestampLayout = "2006-01-02 15:04:05.000000"

// Init initializes the SQLite database.
func Init(dbPath string) error {
	var err error

	db, err = sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON")
	if err != nil {
		return err
	}

	// SQLite has a single writer; tune for concurrent reads.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		return err
	}

	if err = createTables(); err != nil {
		return err
	}

	logger.Info("Database initialized successfully")
	return nil
}

// createTables creates the necessary database tables.
func createTables() error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS audit_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		api_key TEXT NOT NULL,
		operation TEXT NOT NULL,
		job TEXT,
		outcome TEXT NOT NULL,
		parameter TEXT,
		reason TEXT,
		error TEXT
	)
	`)

	return err
}

// InsertAuditEntry inserts a new audit entry.
func InsertAuditEntry(entry models.AuditEntry) error {
	_, err := db.Exec(
		`INSERT INTO audit_entries (timestamp, api_key, operation, job, outcome, parameter, reason, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.Format(timestampLayout),
		entry.APIKey,
		entry.Operation,
		entry.Job,
		entry.Outcome,
		entry.Parameter,
		entry.Reason,
		entry.Error,
	)

	if err != nil {
		logger.Error("Failed to insert audit entry", "error", err)
		return err
	}

	return nil
}

// GetAuditEntries retrieves audit entries with pagination, newest first.
func GetAuditEntries(limit, offset int) ([]models.AuditEntry, error) {
	rows, err := db.Query(
		`SELECT id, timestamp, api_key, operation, job, outcome, parameter, reason, error FROM audit_entries ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		var timestampStr string

		if err := rows.Scan(
			&entry.ID,
			&timestampStr,
			&entry.APIKey,
			&entry.Operation,
			&entry.Job,
			&entry.Outcome,
			&entry.Parameter,
			&entry.Reason,
			&entry.Error,
		); err != nil {
			return nil, err
		}

		timestamp, err := time.Parse(timestampLayout, timestampStr)
		if err != nil {
			// Older rows may lack microseconds
			timestamp, err = time.Parse("2006-01-02 15:04:05", timestampStr)
			if err != nil {
				timestamp = time.Now()
			}
		}
		entry.Timestamp = timestamp

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Ping checks the database connection.
func Ping() error {
	if db == nil {
		return sql.ErrConnDone
	}
	return db.Ping()
}

// Close closes the database connection.
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}
