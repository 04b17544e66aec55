package systems

import (
	"fmt"
	"io"
)

const nesHeaderSize = 16

var nesMagic = []byte{'N', 'E', 'S', 0x1A}

// NES identifies iNES-format Nintendo Entertainment System dumps by the
// 16-byte header starting with "NES\x1a".
type NES struct{}

// NewNES returns the NES provider.
func NewNES() *NES { return &NES{} }

func (*NES) ID() string           { return "nes" }
func (*NES) DisplayName() string  { return "Nintendo Entertainment System" }
func (*NES) Extensions() []string { return []string{".nes"} }

func nesHeader(r io.ReaderAt, size int64) ([]byte, bool) {
	if size < nesHeaderSize {
		return nil, false
	}
	header, ok := readAt(r, 0, nesHeaderSize)
	if !ok {
		return nil, false
	}
	for i, b := range nesMagic {
		if header[i] != b {
			return nil, false
		}
	}
	return header, true
}

func (*NES) Validate(r io.ReaderAt, size int64) bool {
	if size <= 0 {
		return false
	}
	_, ok := nesHeader(r, size)
	return ok
}

func (p *NES) ExtractMetadata(r io.ReaderAt, size int64) (Metadata, error) {
	meta := make(Metadata)
	meta.Set(MetaPlatform, p.DisplayName())
	header, ok := nesHeader(r, size)
	if !ok {
		return meta, nil
	}
	mapper := int(header[6]>>4) | int(header[7]&0xF0)
	meta.Set("mapper", fmt.Sprintf("%d", mapper))
	meta.Set("prg_banks", fmt.Sprintf("%d", header[4]))
	meta.Set("chr_banks", fmt.Sprintf("%d", header[5]))
	return meta, nil
}

func (p *NES) CheckHeader(r io.ReaderAt, size int64) HeaderCheck {
	if size <= 0 {
		return headerTruncated("empty file")
	}
	if size < nesHeaderSize {
		return headerTruncated("file shorter than iNES header")
	}
	if _, ok := nesHeader(r, size); !ok {
		return headerInvalid("missing iNES magic")
	}
	return headerOK()
}
