package systems

import "strings"

// Metadata keys shared across providers. Providers may add their own keys
// beyond these.
const (
	MetaTitle    = "title"
	MetaSerial   = "serial"
	MetaRegion   = "region"
	MetaVersion  = "version"
	MetaPlatform = "platform"
)

// Metadata holds extracted header and filename fields for one file.
type Metadata map[string]string

// Set stores a key unless the value is empty.
func (m Metadata) Set(key, value string) {
	if value == "" {
		return
	}
	m[key] = value
}

// Title returns the extracted game title, or "".
func (m Metadata) Title() string { return m[MetaTitle] }

// Serial returns the extracted serial code, or "".
func (m Metadata) Serial() string { return m[MetaSerial] }

// Region returns the extracted region tag, or "".
func (m Metadata) Region() string { return m[MetaRegion] }

// Version returns the extracted version tag, or "".
func (m Metadata) Version() string { return m[MetaVersion] }

// Merge copies fields from other that are not already present.
func (m Metadata) Merge(other Metadata) {
	for key, value := range other {
		if _, ok := m[key]; !ok && value != "" {
			m[key] = value
		}
	}
}

// extractPrintable returns the printable ASCII prefix-trimmed content of raw
// header bytes, stopping at the first NUL.
func extractPrintable(raw []byte) string {
	var b strings.Builder
	for _, c := range raw {
		if c == 0 {
			break
		}
		if c >= 0x20 && c < 0x7F {
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}
