// Package refdb loads reference databases (DAT files) and matches catalog
// hashes against them.
//
// Both Logiqx XML and ClrMamePro text DATs are supported; the format is
// sniffed from the first bytes of the file. Lookups prefer sha1, then md5,
// then crc32 with a size check, yielding a tri-state outcome: verified,
// mismatch (the database covers the system but not this hash), or unknown
// (no database available).
package refdb
