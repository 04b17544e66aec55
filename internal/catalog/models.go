package catalog

import (
	"strings"
	"time"
)

// Status represents the verification state of a catalog entry.
type Status string

const (
	StatusUnknown     Status = "UNKNOWN"
	StatusVerified    Status = "VERIFIED"
	StatusMismatch    Status = "MISMATCH"
	StatusCorrupt     Status = "CORRUPT"
	StatusQuarantined Status = "QUARANTINED"
)

var allStatuses = []Status{
	StatusUnknown,
	StatusVerified,
	StatusMismatch,
	StatusCorrupt,
	StatusQuarantined,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ValidStatus reports whether value is a known entry status.
func ValidStatus(value Status) bool {
	_, ok := statusSet[value]
	return ok
}

// ParseStatus converts user input into a Status.
func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))
	if ValidStatus(status) {
		return status, true
	}
	return "", false
}

// Entry is the persistent record of one physical file in the library.
type Entry struct {
	Path      string
	System    string
	Size      int64
	ModTime   time.Time
	Status    Status
	CRC32     string
	SHA1      string
	MD5       string
	SHA256    string
	MatchName string
	Metadata  map[string]string
	UpdatedAt time.Time
}

// Hash returns the entry's digest for a named algorithm, or "".
func (e *Entry) Hash(algorithm string) string {
	switch strings.ToLower(algorithm) {
	case "crc32":
		return e.CRC32
	case "sha1":
		return e.SHA1
	case "md5":
		return e.MD5
	case "sha256":
		return e.SHA256
	default:
		return ""
	}
}

// DisplayName returns the best human-readable name for the entry: the
// reference match name when verified, else the extracted title, else the
// file name.
func (e *Entry) DisplayName() string {
	if e.MatchName != "" {
		return e.MatchName
	}
	if title := e.Metadata["title"]; title != "" {
		return title
	}
	idx := strings.LastIndexByte(e.Path, '/')
	return e.Path[idx+1:]
}

// Action identifies a kind of audit log record.
type Action string

const (
	ActionScanned     Action = "SCANNED"
	ActionRenamed     Action = "RENAMED"
	ActionQuarantined Action = "QUARANTINED"
	ActionPruned      Action = "PRUNED"
	ActionSkipped     Action = "SKIPPED"
	ActionHashFailed  Action = "HASH_FAILED"
)

// ActionLogEntry is one append-only audit record.
type ActionLogEntry struct {
	ID        int64
	Path      string
	Action    Action
	Detail    string
	Timestamp time.Time
}

// Filter narrows Query results. Zero values mean "no constraint"; a Limit of
// zero returns everything.
type Filter struct {
	System string
	Status Status
	Limit  int
	Offset int
}

// HashGroup is a set of paths within one system sharing one digest value.
type HashGroup struct {
	Algorithm string
	Digest    string
	System    string
	Entries   []Entry
}
