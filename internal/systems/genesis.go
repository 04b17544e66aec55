package systems

import (
	"io"
	"strings"
)

const (
	genesisHeaderOffset  = 0x100
	genesisHeaderSize    = 0x100
	genesisDomesticTitle = 0x20
	genesisOverseasTitle = 0x50
	genesisTitleSize     = 48
	genesisSerialOffset  = 0x80
	genesisSerialSize    = 14
)

// Genesis identifies Sega Mega Drive / Genesis dumps by the "SEGA" console
// marker at 0x100.
type Genesis struct{}

// NewGenesis returns the Genesis provider.
func NewGenesis() *Genesis { return &Genesis{} }

func (*Genesis) ID() string           { return "genesis" }
func (*Genesis) DisplayName() string  { return "Sega Genesis" }
func (*Genesis) Extensions() []string { return []string{".md", ".gen", ".bin"} }

func genesisHeader(r io.ReaderAt, size int64) ([]byte, bool) {
	if size < genesisHeaderOffset+genesisHeaderSize {
		return nil, false
	}
	header, ok := readAt(r, genesisHeaderOffset, genesisHeaderSize)
	if !ok {
		return nil, false
	}
	if !strings.HasPrefix(string(header[:16]), "SEGA") {
		return nil, false
	}
	return header, true
}

func (*Genesis) Validate(r io.ReaderAt, size int64) bool {
	if size <= 0 {
		return false
	}
	_, ok := genesisHeader(r, size)
	return ok
}

func (p *Genesis) ExtractMetadata(r io.ReaderAt, size int64) (Metadata, error) {
	meta := make(Metadata)
	meta.Set(MetaPlatform, p.DisplayName())
	header, ok := genesisHeader(r, size)
	if !ok {
		return meta, nil
	}
	title := extractPrintable(header[genesisOverseasTitle : genesisOverseasTitle+genesisTitleSize])
	if title == "" {
		title = extractPrintable(header[genesisDomesticTitle : genesisDomesticTitle+genesisTitleSize])
	}
	meta.Set(MetaTitle, title)
	meta.Set(MetaSerial, extractPrintable(header[genesisSerialOffset:genesisSerialOffset+genesisSerialSize]))
	return meta, nil
}

func (p *Genesis) CheckHeader(r io.ReaderAt, size int64) HeaderCheck {
	if size <= 0 {
		return headerTruncated("empty file")
	}
	if size < genesisHeaderOffset+genesisHeaderSize {
		return headerTruncated("file shorter than console header")
	}
	if _, ok := genesisHeader(r, size); !ok {
		return headerInvalid("missing SEGA console marker")
	}
	return headerOK()
}
