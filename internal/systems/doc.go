// Package systems classifies ROM files by console and extracts header
// metadata.
//
// Each console is a Provider that knows its file extensions, how to validate
// a file's header, and which metadata fields it can pull out (internal title,
// serial, version). A Registry maps extensions to candidate providers and
// disambiguates shared extensions like .bin and .iso by header validation.
package systems
