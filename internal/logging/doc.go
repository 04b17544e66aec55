// Package logging builds the slog loggers used across romshelf.
//
// It provides console and JSON handlers, standardized field-name constants so
// scan output stays greppable, and small helpers (Error, WithComponent,
// NewNop) that keep call sites terse.
package logging
