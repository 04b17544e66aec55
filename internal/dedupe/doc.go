// Package dedupe finds duplicate entries across the catalog.
//
// Four passes run in order: exact (shared digests), cross-region (same
// normalized title under different region tags), version (same title under
// different revision tags), and fuzzy (name similarity above a configured
// threshold with similar sizes). Every group carries a recommended keeper
// chosen by a scoring model that prefers verified dumps, preferred regions,
// newer revisions, and larger files.
package dedupe
