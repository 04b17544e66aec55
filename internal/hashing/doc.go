// Package hashing computes file digests for catalog entries.
//
// All requested algorithms are fed from a single read pass. The default set
// (crc32, sha1) covers reference-database matching; deep verification adds
// md5 and sha256. Transparently compressed files (.gz, .zst, .xz) and archive
// members (.zip, .7z, .rar) can be hashed on their decompressed payload so
// digests line up with reference databases built from raw dumps.
package hashing
