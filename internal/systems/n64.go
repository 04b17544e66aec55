package systems

import (
	"encoding/binary"
	"io"
)

const (
	n64HeaderSize  = 0x40
	n64TitleOffset = 0x20
	n64TitleSize   = 20
)

// Known byte orders for Nintendo 64 dumps, keyed by the first word.
const (
	n64MagicBigEndian    = 0x80371240 // .z64
	n64MagicByteSwapped  = 0x37804012 // .v64
	n64MagicLittleEndian = 0x40123780 // .n64
)

// N64 identifies Nintendo 64 dumps by the boot-word magic in any of the three
// common byte orders.
type N64 struct{}

// NewN64 returns the Nintendo 64 provider.
func NewN64() *N64 { return &N64{} }

func (*N64) ID() string           { return "n64" }
func (*N64) DisplayName() string  { return "Nintendo 64" }
func (*N64) Extensions() []string { return []string{".z64", ".v64", ".n64"} }

func n64ByteOrder(r io.ReaderAt, size int64) (string, bool) {
	if size < n64HeaderSize {
		return "", false
	}
	word, ok := readAt(r, 0, 4)
	if !ok {
		return "", false
	}
	switch binary.BigEndian.Uint32(word) {
	case n64MagicBigEndian:
		return "big-endian", true
	case n64MagicByteSwapped:
		return "byte-swapped", true
	case n64MagicLittleEndian:
		return "little-endian", true
	}
	return "", false
}

func (*N64) Validate(r io.ReaderAt, size int64) bool {
	if size <= 0 {
		return false
	}
	_, ok := n64ByteOrder(r, size)
	return ok
}

func (p *N64) ExtractMetadata(r io.ReaderAt, size int64) (Metadata, error) {
	meta := make(Metadata)
	meta.Set(MetaPlatform, p.DisplayName())
	order, ok := n64ByteOrder(r, size)
	if !ok {
		return meta, nil
	}
	meta.Set("byte_order", order)

	raw, ok := readAt(r, n64TitleOffset, n64TitleSize)
	if !ok {
		return meta, nil
	}
	if order == "byte-swapped" {
		for i := 0; i+1 < len(raw); i += 2 {
			raw[i], raw[i+1] = raw[i+1], raw[i]
		}
	}
	meta.Set(MetaTitle, extractPrintable(raw))
	return meta, nil
}

func (p *N64) CheckHeader(r io.ReaderAt, size int64) HeaderCheck {
	if size <= 0 {
		return headerTruncated("empty file")
	}
	if size < n64HeaderSize {
		return headerTruncated("file shorter than cartridge header")
	}
	if _, ok := n64ByteOrder(r, size); !ok {
		return headerInvalid("unrecognized boot word")
	}
	return headerOK()
}
