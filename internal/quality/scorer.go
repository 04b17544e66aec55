package quality

import (
	"fmt"
	"io"

	"romshelf/internal/config"
	"romshelf/internal/systems"
)

// Input carries everything the scorer needs about one entry.
type Input struct {
	Path string
	Size int64
	// Reader gives access to file content for structure sampling and header
	// checks. May be nil when the file is unreadable.
	Reader io.ReaderAt
	// Provider is the classified console provider, nil for unclassified
	// files.
	Provider systems.Provider
	// Verified is true when a reference database confirmed a digest.
	Verified bool
	// Mismatched is true when a fast checksum pointed at a reference entry
	// but the cryptographic digest disagreed.
	Mismatched bool
	// HasDigests is true when hashing succeeded.
	HasDigests bool
	// HasMetadata is true when header metadata extraction yielded fields.
	HasMetadata bool
}

// Scorer applies the configured weights to entries.
type Scorer struct {
	weights config.Quality
}

// NewScorer builds a scorer from the configured weights.
func NewScorer(weights config.Quality) *Scorer {
	return &Scorer{weights: weights}
}

const structureSampleSize = 1024

// Score evaluates one entry.
//
// Checks run in a fixed order and each successful check adds its weight; an
// invalid console header subtracts the header weight instead.
// Zero-byte and truncated files short-circuit to a zero score and CORRUPT;
// nothing a later check adds can rescue a file with no content.
func (s *Scorer) Score(in Input) Verdict {
	v := Verdict{Verified: in.Verified}

	if corrupt := s.checkStructure(in, &v); corrupt {
		v.Score = 0
		v.Tier = TierCorrupt
		return v
	}
	if corrupt := s.checkHeader(in, &v); corrupt {
		v.Score = 0
		v.Tier = TierCorrupt
		return v
	}
	s.checkChecksum(in, &v)
	s.checkVerification(in, &v)

	if v.Score < 0 {
		v.Score = 0
	}
	if v.Score > 100 {
		v.Score = 100
	}
	v.Tier = tierFor(v.Score, in.Verified)
	return v
}

func (s *Scorer) checkStructure(in Input, v *Verdict) bool {
	v.ChecksPerformed = append(v.ChecksPerformed, "structure")

	if in.Size == 0 {
		v.Issues = append(v.Issues, Issue{
			Type:     IssueZeroBytes,
			Severity: SeverityCritical,
			Detail:   "file is empty",
		})
		return true
	}

	ok := true
	if in.Size < structureSampleSize {
		v.Issues = append(v.Issues, Issue{
			Type:     IssueSuspiciousSize,
			Severity: SeverityHigh,
			Detail:   fmt.Sprintf("file is only %d bytes", in.Size),
		})
		ok = false
	}
	if in.Reader != nil {
		n := in.Size
		if n > structureSampleSize {
			n = structureSampleSize
		}
		sample := make([]byte, n)
		if read, err := in.Reader.ReadAt(sample, 0); err == nil || err == io.EOF {
			allZero := read > 0
			for _, b := range sample[:read] {
				if b != 0 {
					allZero = false
					break
				}
			}
			if allZero {
				v.Issues = append(v.Issues, Issue{
					Type:     IssueZeroBytes,
					Severity: SeverityHigh,
					Detail:   "leading content is all null bytes",
				})
				ok = false
			}
		}
	}
	if ok {
		v.Score += s.weights.StructureWeight
	}
	return false
}

func (s *Scorer) checkHeader(in Input, v *Verdict) bool {
	checker, hasChecker := in.Provider.(systems.HeaderChecker)
	if !hasChecker || in.Reader == nil {
		// No console-specific header test exists; the check is skipped and
		// the weight awarded so headerless systems are not punished.
		v.Score += s.weights.HeaderWeight
		return false
	}

	v.ChecksPerformed = append(v.ChecksPerformed, "header")
	check := checker.CheckHeader(in.Reader, in.Size)
	switch check.Issue {
	case systems.HeaderOK:
		v.Score += s.weights.HeaderWeight
		return false
	case systems.HeaderTruncated:
		v.Issues = append(v.Issues, Issue{
			Type:     IssueTruncatedFile,
			Severity: SeverityCritical,
			Detail:   check.Detail,
		})
		return true
	default:
		v.Issues = append(v.Issues, Issue{
			Type:     IssueInvalidHeader,
			Severity: SeverityHigh,
			Detail:   check.Detail,
		})
		v.Score -= s.weights.HeaderWeight
		return false
	}
}

func (s *Scorer) checkChecksum(in Input, v *Verdict) {
	v.ChecksPerformed = append(v.ChecksPerformed, "checksum")
	if !in.HasDigests {
		v.Issues = append(v.Issues, Issue{
			Type:     IssueMetadataMissing,
			Severity: SeverityLow,
			Detail:   "no digests computed",
		})
		v.Score -= s.weights.MinorPenalty
		return
	}
	if in.Mismatched {
		v.Issues = append(v.Issues, Issue{
			Type:     IssueInvalidChecksum,
			Severity: SeverityHigh,
			Detail:   "cryptographic digest disagrees with matched reference entry",
		})
		return
	}
	v.Score += s.weights.ChecksumWeight
}

func (s *Scorer) checkVerification(in Input, v *Verdict) {
	v.ChecksPerformed = append(v.ChecksPerformed, "verification")
	if in.Verified {
		v.Score += s.weights.VerificationWeight
		return
	}
	v.Issues = append(v.Issues, Issue{
		Type:     IssueUnverified,
		Severity: SeverityLow,
		Detail:   "no reference database confirmation",
	})
	if !in.HasMetadata {
		v.Issues = append(v.Issues, Issue{
			Type:     IssueMetadataMissing,
			Severity: SeverityLow,
			Detail:   "no header metadata extracted",
		})
		v.Score -= s.weights.MinorPenalty
	}
}

func tierFor(score int, verified bool) Tier {
	switch {
	case score >= 95 && verified:
		return TierPerfect
	case score >= 80:
		return TierGood
	case score >= 60:
		return TierQuestionable
	case score >= 40:
		return TierDamaged
	default:
		return TierCorrupt
	}
}
