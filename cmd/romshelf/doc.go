// Command romshelf is the CLI for the ROM library catalog: scanning,
// verification against reference databases, duplicate detection, renaming,
// quarantine, and reporting.
package main
