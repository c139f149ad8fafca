// This file contains methods for audit logging.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AuditEntry represents a single audit log record.
type AuditEntry struct {
	ID        int64
	Timestamp time.Time
	Action    string // e.g. credential.verify, auth.denied, challenge.forbidden
	Target    string
	Decision  string
	Details   map[string]string
}

// AuditFilter specifies criteria for querying audit entries.
type AuditFilter struct {
	Action string
	Target string
	Since  time.Time
	Limit  int
}

// InsertAuditEntry adds a new audit log entry to the database.
func (s *Store) InsertAuditEntry(entry *AuditEntry) (int64, error) {
	var detailsJSON sql.NullString
	if len(entry.Details) > 0 {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal details: %w", err)
		}
		detailsJSON.String = string(data)
		detailsJSON.Valid = true
	}

	result, err := s.db.Exec(
		`INSERT INTO audit_log (timestamp, action, target, decision, details)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.Timestamp.Unix(), entry.Action, entry.Target, entry.Decision, detailsJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert audit entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get audit entry id: %w", err)
	}
	return id, nil
}

// QueryAuditEntries returns audit entries matching the filter, newest first.
func (s *Store) QueryAuditEntries(filter AuditFilter) ([]AuditEntry, error) {
	var conditions []string
	var args []any

	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.Target != "" {
		conditions = append(conditions, "target = ?")
		args = append(args, filter.Target)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.Since.Unix())
	}

	query := `SELECT id, timestamp, action, target, decision, details FROM audit_log`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		var ts int64
		var detailsJSON sql.NullString

		if err := rows.Scan(&entry.ID, &ts, &entry.Action, &entry.Target, &entry.Decision, &detailsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.Timestamp = time.Unix(ts, 0)
		if detailsJSON.Valid {
			if err := json.Unmarshal([]byte(detailsJSON.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
