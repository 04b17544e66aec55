// Package organizer applies filesystem actions derived from the catalog:
// renaming files to their canonical reference names and moving damaged files
// into quarantine.
//
// Moves are collision-safe and fall back to copy-and-remove when the target
// sits on a different filesystem. Every applied action updates the catalog
// row and leaves an audit record, so the catalog never references a path that
// no longer exists.
package organizer
