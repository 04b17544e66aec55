package quality

// Tier buckets a score into a user-facing quality level.
type Tier string

const (
	TierPerfect      Tier = "PERFECT"
	TierGood         Tier = "GOOD"
	TierQuestionable Tier = "QUESTIONABLE"
	TierDamaged      Tier = "DAMAGED"
	TierCorrupt      Tier = "CORRUPT"
)

// IssueType identifies a detected problem class.
type IssueType string

const (
	IssueZeroBytes        IssueType = "ZERO_BYTES"
	IssueTruncatedFile    IssueType = "TRUNCATED_FILE"
	IssueInvalidHeader    IssueType = "INVALID_HEADER"
	IssueInvalidChecksum  IssueType = "INVALID_CHECKSUM"
	IssueSuspiciousSize   IssueType = "SUSPICIOUS_SIZE"
	IssueMetadataMissing  IssueType = "METADATA_MISSING"
	IssueUnverified       IssueType = "UNVERIFIED"
	IssueHeaderCorruption IssueType = "HEADER_CORRUPTION"
	IssueMissingSections  IssueType = "MISSING_SECTIONS"
)

// Severity levels for issues.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Issue is one detected problem.
type Issue struct {
	Type     IssueType
	Severity string
	Detail   string
}

// Verdict is the outcome of scoring one entry.
type Verdict struct {
	Score           int
	Tier            Tier
	Issues          []Issue
	ChecksPerformed []string
	Verified        bool
}

// Playable reports whether the entry is expected to run: the top three tiers
// qualify.
func (v Verdict) Playable() bool {
	switch v.Tier {
	case TierPerfect, TierGood, TierQuestionable:
		return true
	}
	return false
}

// Icon returns a compact status marker for table output.
func (v Verdict) Icon() string {
	switch v.Tier {
	case TierPerfect:
		return "++"
	case TierGood:
		return "+"
	case TierQuestionable:
		return "?"
	case TierDamaged:
		return "-"
	default:
		return "--"
	}
}
