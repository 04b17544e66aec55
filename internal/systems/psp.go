package systems

import (
	"bytes"
	"io"
	"regexp"
)

var pspSerialRe = regexp.MustCompile(`(UL[UEJA]S|UC[UEJA]S|NP[UEJH][GHZ])[_-]?(\d{5})`)

// PSP identifies PlayStation Portable disc images by the PSP_GAME directory
// marker in the ISO file table.
type PSP struct{}

// NewPSP returns the PlayStation Portable provider.
func NewPSP() *PSP { return &PSP{} }

func (*PSP) ID() string           { return "psp" }
func (*PSP) DisplayName() string  { return "PlayStation Portable" }
func (*PSP) Extensions() []string { return []string{".iso", ".cso"} }

func (*PSP) Validate(r io.ReaderAt, size int64) bool {
	if size <= 0 {
		return false
	}
	window := scanWindow(r, size)
	return bytes.Contains(window, []byte("PSP_GAME")) || bytes.Contains(window, []byte("CISO"))
}

func (p *PSP) ExtractMetadata(r io.ReaderAt, size int64) (Metadata, error) {
	meta := make(Metadata)
	meta.Set(MetaPlatform, p.DisplayName())
	window := scanWindow(r, size)
	if match := pspSerialRe.FindSubmatch(window); match != nil {
		meta.Set(MetaSerial, string(match[1])+"-"+string(match[2]))
	}
	return meta, nil
}
