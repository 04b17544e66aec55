package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const entryColumns = "path, system, size, mtime, status, crc32, sha1, md5, sha256, match_name, metadata_json, updated_at"

// ErrNotFound is returned when a catalog entry does not exist.
var ErrNotFound = errors.New("catalog: entry not found")

// Upsert inserts an entry or replaces the existing row for the same path.
func (s *Store) Upsert(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	if entry.Path == "" {
		return errors.New("entry path is empty")
	}
	if entry.Status == "" {
		entry.Status = StatusUnknown
	}
	if !ValidStatus(entry.Status) {
		return fmt.Errorf("invalid status %q", entry.Status)
	}

	metadataJSON, err := marshalMetadata(entry.Metadata)
	if err != nil {
		return err
	}

	entry.UpdatedAt = time.Now().UTC()
	timestamp := entry.UpdatedAt.Format(time.RFC3339Nano)

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO entries (
            path, system, size, mtime, status, crc32, sha1, md5, sha256,
            match_name, metadata_json, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            system = excluded.system,
            size = excluded.size,
            mtime = excluded.mtime,
            status = excluded.status,
            crc32 = excluded.crc32,
            sha1 = excluded.sha1,
            md5 = excluded.md5,
            sha256 = excluded.sha256,
            match_name = excluded.match_name,
            metadata_json = excluded.metadata_json,
            updated_at = excluded.updated_at`,
		entry.Path,
		entry.System,
		entry.Size,
		entry.ModTime.UTC().Format(time.RFC3339Nano),
		entry.Status,
		nullableString(entry.CRC32),
		nullableString(entry.SHA1),
		nullableString(entry.MD5),
		nullableString(entry.SHA256),
		nullableString(entry.MatchName),
		nullableString(metadataJSON),
		timestamp,
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// UpsertBatch writes a set of entries inside one transaction.
func (s *Store) UpsertBatch(ctx context.Context, entries []*Entry) error {
	if len(entries) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin batch tx: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()

		stmt, err := tx.PrepareContext(
			ctx,
			`INSERT INTO entries (
                path, system, size, mtime, status, crc32, sha1, md5, sha256,
                match_name, metadata_json, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(path) DO UPDATE SET
                system = excluded.system,
                size = excluded.size,
                mtime = excluded.mtime,
                status = excluded.status,
                crc32 = excluded.crc32,
                sha1 = excluded.sha1,
                md5 = excluded.md5,
                sha256 = excluded.sha256,
                match_name = excluded.match_name,
                metadata_json = excluded.metadata_json,
                updated_at = excluded.updated_at`,
		)
		if err != nil {
			return fmt.Errorf("prepare batch upsert: %w", err)
		}
		defer stmt.Close()

		for _, entry := range entries {
			if entry == nil || entry.Path == "" {
				return errors.New("batch contains entry without path")
			}
			if entry.Status == "" {
				entry.Status = StatusUnknown
			}
			if !ValidStatus(entry.Status) {
				return fmt.Errorf("invalid status %q for %s", entry.Status, entry.Path)
			}
			metadataJSON, err := marshalMetadata(entry.Metadata)
			if err != nil {
				return err
			}
			entry.UpdatedAt = time.Now().UTC()
			timestamp := entry.UpdatedAt.Format(time.RFC3339Nano)
			if _, err := stmt.ExecContext(
				ctx,
				entry.Path,
				entry.System,
				entry.Size,
				entry.ModTime.UTC().Format(time.RFC3339Nano),
				entry.Status,
				nullableString(entry.CRC32),
				nullableString(entry.SHA1),
				nullableString(entry.MD5),
				nullableString(entry.SHA256),
				nullableString(entry.MatchName),
				nullableString(metadataJSON),
				timestamp,
				timestamp,
			); err != nil {
				return fmt.Errorf("batch upsert %s: %w", entry.Path, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit batch upsert: %w", err)
		}
		return nil
	})
}

// Get fetches an entry by path. Missing entries return ErrNotFound.
func (s *Store) Get(ctx context.Context, path string) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE path = ?`, path)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// Remove deletes an entry by path and reports whether a row was removed.
func (s *Store) Remove(ctx context.Context, path string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM entries WHERE path = ?`, path)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// updatableColumns whitelists the columns UpdateFields may touch.
var updatableColumns = map[string]struct{}{
	"system":        {},
	"status":        {},
	"crc32":         {},
	"sha1":          {},
	"md5":           {},
	"sha256":        {},
	"match_name":    {},
	"metadata_json": {},
}

// UpdateFields updates a subset of columns for one entry. Column names outside
// the whitelist are rejected before any SQL runs.
func (s *Store) UpdateFields(ctx context.Context, path string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	columns := make([]string, 0, len(fields))
	for column := range fields {
		if _, ok := updatableColumns[column]; !ok {
			return fmt.Errorf("column %q is not updatable", column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	setClauses := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+2)
	for _, column := range columns {
		setClauses = append(setClauses, column+" = ?")
		args = append(args, fields[column])
	}
	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano), path)

	res, err := s.execWithRetry(
		ctx,
		`UPDATE entries SET `+strings.Join(setClauses, ", ")+` WHERE path = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update entry fields: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Query returns entries matching the filter ordered by path.
func (s *Store) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	ctx = ensureContext(ctx)

	query := `SELECT ` + entryColumns + ` FROM entries`
	var (
		clauses []string
		args    []any
	)
	if filter.System != "" {
		clauses = append(clauses, "system = ?")
		args = append(args, filter.System)
	}
	if filter.Status != "" {
		if !ValidStatus(filter.Status) {
			return nil, fmt.Errorf("invalid status %q", filter.Status)
		}
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY path"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// AllPaths returns every cataloged path, optionally scoped to one system.
func (s *Store) AllPaths(ctx context.Context, system string) ([]string, error) {
	ctx = ensureContext(ctx)
	query := `SELECT path FROM entries`
	var args []any
	if system != "" {
		query += ` WHERE system = ?`
		args = append(args, system)
	}
	query += ` ORDER BY path`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Stats returns entry counts grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM entries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// SystemStats returns entry counts grouped by system.
func (s *Store) SystemStats(ctx context.Context) (map[string]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT system, COUNT(1) FROM entries GROUP BY system`)
	if err != nil {
		return nil, fmt.Errorf("system stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var system string
		var count int
		if err := rows.Scan(&system, &count); err != nil {
			return nil, err
		}
		stats[system] = count
	}
	return stats, rows.Err()
}

func marshalMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "", nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return string(data), nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		path      string
		system    string
		size      int64
		mtimeRaw  string
		statusStr string
		crc32     sql.NullString
		sha1      sql.NullString
		md5       sql.NullString
		sha256    sql.NullString
		matchName sql.NullString
		metadata  sql.NullString
		updatedAt sql.NullString
	)

	if err := scanner.Scan(
		&path,
		&system,
		&size,
		&mtimeRaw,
		&statusStr,
		&crc32,
		&sha1,
		&md5,
		&sha256,
		&matchName,
		&metadata,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		Path:      path,
		System:    system,
		Size:      size,
		Status:    Status(statusStr),
		CRC32:     crc32.String,
		SHA1:      sha1.String,
		MD5:       md5.String,
		SHA256:    sha256.String,
		MatchName: matchName.String,
	}
	if mtime, err := parseTimeString(mtimeRaw); err == nil {
		entry.ModTime = mtime
	}
	if updated, err := parseTimeString(updatedAt.String); err == nil {
		entry.UpdatedAt = updated
	}
	if metadata.Valid && metadata.String != "" {
		parsed := make(map[string]string)
		if err := json.Unmarshal([]byte(metadata.String), &parsed); err != nil {
			return nil, fmt.Errorf("unmarshal metadata for %s: %w", path, err)
		}
		entry.Metadata = parsed
	}
	return entry, nil
}
