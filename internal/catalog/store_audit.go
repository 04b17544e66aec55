package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LogAction appends one record to the audit log. Records are never updated or
// deleted once written.
func (s *Store) LogAction(ctx context.Context, path string, action Action, detail string) error {
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO actions (path, action, detail, created_at) VALUES (?, ?, ?, ?)`,
		path,
		action,
		nullableString(detail),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log action: %w", err)
	}
	return nil
}

// RecentActions returns the newest audit records, optionally scoped to one
// path. A limit of zero returns everything.
func (s *Store) RecentActions(ctx context.Context, path string, limit int) ([]ActionLogEntry, error) {
	ctx = ensureContext(ctx)

	query := `SELECT id, path, action, detail, created_at FROM actions`
	var args []any
	if path != "" {
		query += ` WHERE path = ?`
		args = append(args, path)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var records []ActionLogEntry
	for rows.Next() {
		var (
			record    ActionLogEntry
			actionStr string
			detail    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&record.ID, &record.Path, &actionStr, &detail, &createdAt); err != nil {
			return nil, err
		}
		record.Action = Action(actionStr)
		record.Detail = detail.String
		if ts, err := parseTimeString(createdAt); err == nil {
			record.Timestamp = ts
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
