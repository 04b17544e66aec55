package systems

import (
	"bytes"
	"io"
	"regexp"
	"strings"
)

// discScanWindow bounds how much of a disc image gets scanned for boot
// markers and serial codes.
const discScanWindow = 1 << 20

var (
	psxSerialRe = regexp.MustCompile(`(S[CL][UEP][SMDAX])[_-](\d{3})\.?(\d{2})`)
	// The PSX SYSTEM.CNF boot line reads "BOOT = cdrom:\...". PS2 images use
	// BOOT2, which this pattern deliberately does not match.
	psxBootLineRe = regexp.MustCompile(`BOOT\s*=\s*cdrom`)
)

// scanWindow reads up to discScanWindow bytes from the start of the image.
func scanWindow(r io.ReaderAt, size int64) []byte {
	n := size
	if n > discScanWindow {
		n = discScanWindow
	}
	if n <= 0 {
		return nil
	}
	buf := make([]byte, n)
	read, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil
	}
	return buf[:read]
}

// formatDiscSerial converts a raw serial match like "SLUS_123.45" into the
// canonical "SLUS-12345" form.
func formatDiscSerial(match []string) string {
	return match[1] + "-" + match[2] + match[3]
}

// PSX identifies PlayStation disc images. Raw images carry the
// "PLAYSTATION" system-area marker; cue sheets are recognized by their track
// layout text.
type PSX struct{}

// NewPSX returns the PlayStation provider.
func NewPSX() *PSX { return &PSX{} }

func (*PSX) ID() string           { return "psx" }
func (*PSX) DisplayName() string  { return "PlayStation" }
func (*PSX) Extensions() []string { return []string{".bin", ".cue", ".iso", ".chd"} }

func (*PSX) Validate(r io.ReaderAt, size int64) bool {
	if size <= 0 {
		return false
	}
	window := scanWindow(r, size)
	if len(window) == 0 {
		return false
	}
	if psxBootLineRe.Match(window) {
		return true
	}
	if bytes.Contains(window, []byte("PLAYSTATION")) && !bytes.Contains(window, []byte("BOOT2")) {
		return true
	}
	return looksLikeCueSheet(window)
}

func looksLikeCueSheet(window []byte) bool {
	text := string(window)
	return strings.Contains(text, "FILE ") && strings.Contains(text, "TRACK ")
}

func (p *PSX) ExtractMetadata(r io.ReaderAt, size int64) (Metadata, error) {
	meta := make(Metadata)
	meta.Set(MetaPlatform, p.DisplayName())
	window := scanWindow(r, size)
	if match := psxSerialRe.FindSubmatch(window); match != nil {
		parts := make([]string, len(match))
		for i, m := range match {
			parts[i] = string(m)
		}
		meta.Set(MetaSerial, formatDiscSerial(parts))
	}
	return meta, nil
}
