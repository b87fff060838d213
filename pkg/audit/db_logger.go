package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// DBLogger persists audit events through database/sql. It is exercised with
// SQLite in this repository; the SQL sticks to the portable subset.
type DBLogger struct {
	db *sql.DB
}

// NewDBLogger creates a database-backed audit logger, creating the
// audit_events table if it does not exist.
func NewDBLogger(db *sql.DB) (*DBLogger, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	logger := &DBLogger{db: db}
	if err := logger.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure audit_events table: %w", err)
	}
	return logger, nil
}

func (l *DBLogger) ensureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		status TEXT NOT NULL,
		user_id INTEGER,
		role TEXT,
		requirement TEXT,
		reason TEXT,
		request_id TEXT,
		message TEXT,
		timestamp TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_events_timestamp ON audit_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_audit_events_user_id ON audit_events(user_id);
	CREATE INDEX IF NOT EXISTS idx_audit_events_status ON audit_events(status);
	`
	_, err := l.db.Exec(query)
	return err
}

// Log inserts the event.
func (l *DBLogger) Log(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (id, event_type, status, user_id, role, requirement, reason, request_id, message, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := l.db.ExecContext(ctx, query,
		event.ID,
		string(event.Type),
		string(event.Status),
		event.UserID,
		event.Role,
		event.Requirement,
		event.Reason,
		event.RequestID,
		event.Message,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (l *DBLogger) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, event_type, status, user_id, role, requirement, reason, request_id, message, timestamp
		FROM audit_events
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`
	rows, err := l.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var eventType, status string
		var userID sql.NullInt64
		if err := rows.Scan(
			&event.ID,
			&eventType,
			&status,
			&userID,
			&event.Role,
			&event.Requirement,
			&event.Reason,
			&event.RequestID,
			&event.Message,
			&event.Timestamp,
		); err != nil {
			return nil, err
		}
		event.Type = EventType(eventType)
		event.Status = EventStatus(status)
		if userID.Valid {
			id := userID.Int64
			event.UserID = &id
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Close implements Logger. The caller owns the *sql.DB.
func (l *DBLogger) Close() error {
	return nil
}
