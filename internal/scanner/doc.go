// Package scanner walks the library, hashes every ROM, and reconciles the
// catalog with what is on disk.
//
// A scan run holds an exclusive file lock so two runs never race on the same
// library. Files fan out to a worker pool; each worker classifies the file,
// hashes its payload (decompressing or unpacking containers when configured),
// matches the digests against the reference index for its console, scores the
// result, and upserts the catalog entry. A file that fails is recorded and
// skipped without aborting the run.
package scanner
