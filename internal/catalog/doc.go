// Package catalog persists the ROM library catalog in SQLite.
//
// The store keeps one row per physical file (path-keyed), the checksums and
// reference-match status computed for it, and an append-only audit log of
// every action that mutated a file on disk or changed its catalog status.
// Writes run through bounded busy-retry so concurrent scan workers sharing
// the WAL database do not fail on transient lock contention.
package catalog
