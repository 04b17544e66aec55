package systems

import (
	"bytes"
	"io"
	"regexp"
)

var ps2SerialRe = regexp.MustCompile(`([A-Z]{4})[_-](\d{3})\.?(\d{2})`)

// PS2 identifies PlayStation 2 disc images by the BOOT2 line in SYSTEM.CNF
// and the executable serial it references.
type PS2 struct{}

// NewPS2 returns the PlayStation 2 provider.
func NewPS2() *PS2 { return &PS2{} }

func (*PS2) ID() string           { return "ps2" }
func (*PS2) DisplayName() string  { return "PlayStation 2" }
func (*PS2) Extensions() []string { return []string{".iso", ".bin", ".chd"} }

func (*PS2) Validate(r io.ReaderAt, size int64) bool {
	if size <= 0 {
		return false
	}
	window := scanWindow(r, size)
	return bytes.Contains(window, []byte("BOOT2"))
}

func (p *PS2) ExtractMetadata(r io.ReaderAt, size int64) (Metadata, error) {
	meta := make(Metadata)
	meta.Set(MetaPlatform, p.DisplayName())
	window := scanWindow(r, size)

	// Prefer the serial named on the BOOT2 line; fall back to the first
	// serial-shaped token anywhere in the window.
	search := window
	if idx := bytes.Index(window, []byte("BOOT2")); idx >= 0 {
		line := window[idx:]
		if end := bytes.IndexAny(line, "\r\n"); end >= 0 {
			line = line[:end]
		}
		if match := ps2SerialRe.FindSubmatch(line); match != nil {
			search = line
		}
	}
	if match := ps2SerialRe.FindSubmatch(search); match != nil {
		parts := make([]string, len(match))
		for i, m := range match {
			parts[i] = string(m)
		}
		meta.Set(MetaSerial, formatDiscSerial(parts))
	}
	return meta, nil
}
