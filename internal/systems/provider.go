package systems

import "io"

// Provider identifies files belonging to one console.
type Provider interface {
	// ID returns the short system identifier used in the catalog (for
	// example "snes" or "ps2").
	ID() string
	// DisplayName returns the human-readable console name.
	DisplayName() string
	// Extensions returns the lowercase file extensions (with dot) this
	// provider claims. Extensions may be shared between providers.
	Extensions() []string
	// Validate reports whether the file content looks like a ROM for this
	// console. Implementations must return false for zero-byte files and
	// treat read failures as a non-match.
	Validate(r io.ReaderAt, size int64) bool
	// ExtractMetadata pulls console-specific fields out of the file header.
	// A file that validates but yields no fields returns an empty map.
	ExtractMetadata(r io.ReaderAt, size int64) (Metadata, error)
}

// HeaderIssue classifies what a header inspection found.
type HeaderIssue int

const (
	// HeaderOK means the header is intact.
	HeaderOK HeaderIssue = iota
	// HeaderTruncated means the file ends before the header does. Empty
	// files report this too.
	HeaderTruncated
	// HeaderInvalid means the header region is present but its content
	// fails the console's structural test.
	HeaderInvalid
)

// HeaderCheck is the result of one header inspection. Detail carries a short
// human-readable description when the header is not intact.
type HeaderCheck struct {
	Issue  HeaderIssue
	Detail string
}

// Intact reports whether the header passed inspection.
func (c HeaderCheck) Intact() bool { return c.Issue == HeaderOK }

func headerOK() HeaderCheck { return HeaderCheck{} }

func headerTruncated(detail string) HeaderCheck {
	return HeaderCheck{Issue: HeaderTruncated, Detail: detail}
}

func headerInvalid(detail string) HeaderCheck {
	return HeaderCheck{Issue: HeaderInvalid, Detail: detail}
}

// HeaderChecker is implemented by providers that can distinguish a damaged
// header from a merely absent one. Quality scoring uses it when present.
type HeaderChecker interface {
	CheckHeader(r io.ReaderAt, size int64) HeaderCheck
}

func readAt(r io.ReaderAt, offset int64, length int) ([]byte, bool) {
	buf := make([]byte, length)
	n, err := r.ReadAt(buf, offset)
	if n == length {
		return buf, true
	}
	if err != nil && err != io.EOF {
		return nil, false
	}
	return buf[:n], n == length
}
