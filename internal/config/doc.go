// Package config loads, normalizes, and validates romshelf configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and scan pipeline need: library and DAT directories, worker counts,
// hashing depth, quality weights, and duplicate-detection thresholds.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths and clear validation errors that name the offending
// field.
package config
