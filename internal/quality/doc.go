// Package quality scores catalog entries for dump health.
//
// The score is additive over four weighted checks (file structure, header
// validity, checksum consistency, reference verification), clamped to
// [0,100], and mapped to a tier. Empty and truncated files short-circuit to
// CORRUPT with a zero score regardless of the other checks.
package quality
