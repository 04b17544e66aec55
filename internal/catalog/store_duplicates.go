package catalog

import (
	"context"
	"fmt"
)

// hashColumnOrder lists digest columns from strongest to weakest. Duplicate
// grouping prefers the strongest digest that is populated across the library.
var hashColumnOrder = []string{"sha256", "sha1", "md5", "crc32"}

// DuplicateGroups returns sets of entries sharing one digest value within one
// system, using the strongest hash column with at least one grouped pair.
// Entries missing that digest are ignored, and identical payloads cataloged
// under different systems never land in the same group.
func (s *Store) DuplicateGroups(ctx context.Context, system string) ([]HashGroup, error) {
	ctx = ensureContext(ctx)

	for _, column := range hashColumnOrder {
		groups, err := s.duplicateGroupsByColumn(ctx, column, system)
		if err != nil {
			return nil, err
		}
		if len(groups) > 0 {
			return groups, nil
		}
		populated, err := s.hashPopulated(ctx, column, system)
		if err != nil {
			return nil, err
		}
		// A populated column with no collisions is authoritative: weaker
		// hashes cannot add groups the stronger one missed.
		if populated {
			return nil, nil
		}
	}
	return nil, nil
}

func (s *Store) duplicateGroupsByColumn(ctx context.Context, column, system string) ([]HashGroup, error) {
	query := `SELECT ` + column + `, system FROM entries WHERE ` + column + ` IS NOT NULL`
	var args []any
	if system != "" {
		query += ` AND system = ?`
		args = append(args, system)
	}
	query += ` GROUP BY ` + column + `, system HAVING COUNT(1) > 1 ORDER BY ` + column + `, system`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query duplicate %s groups: %w", column, err)
	}
	defer rows.Close()

	type groupKey struct {
		digest string
		system string
	}
	var keys []groupKey
	for rows.Next() {
		var key groupKey
		if err := rows.Scan(&key.digest, &key.system); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	groups := make([]HashGroup, 0, len(keys))
	for _, key := range keys {
		entries, err := s.entriesByHash(ctx, column, key.digest, key.system)
		if err != nil {
			return nil, err
		}
		groups = append(groups, HashGroup{
			Algorithm: column,
			Digest:    key.digest,
			System:    key.system,
			Entries:   entries,
		})
	}
	return groups, nil
}

func (s *Store) entriesByHash(ctx context.Context, column, digest, system string) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE ` + column + ` = ?`
	args := []any{digest}
	if system != "" {
		query += ` AND system = ?`
		args = append(args, system)
	}
	query += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries by %s: %w", column, err)
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

func (s *Store) hashPopulated(ctx context.Context, column, system string) (bool, error) {
	query := `SELECT COUNT(1) FROM entries WHERE ` + column + ` IS NOT NULL`
	var args []any
	if system != "" {
		query += ` AND system = ?`
		args = append(args, system)
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("count %s digests: %w", column, err)
	}
	return count > 0, nil
}
