package systems

import "io"

const (
	gbaHeaderSize      = 192
	gbaTitleOffset     = 0xA0
	gbaTitleSize       = 12
	gbaGameCodeOffset  = 0xAC
	gbaGameCodeSize    = 4
	gbaMakerCodeOffset = 0xB0
	gbaMakerCodeSize   = 2
	gbaFixedByteOffset = 0xB2
	gbaChecksumOffset  = 0xBD
)

// GBA identifies Game Boy Advance dumps. The header carries a fixed 0x96
// byte at 0xB2 and an 8-bit complement checksum over 0xA0..0xBC, both
// verified by the console BIOS.
type GBA struct{}

// NewGBA returns the Game Boy Advance provider.
func NewGBA() *GBA { return &GBA{} }

func (*GBA) ID() string           { return "gba" }
func (*GBA) DisplayName() string  { return "Game Boy Advance" }
func (*GBA) Extensions() []string { return []string{".gba"} }

func gbaHeaderValid(r io.ReaderAt, size int64) bool {
	if size < gbaHeaderSize {
		return false
	}
	header, ok := readAt(r, 0, gbaHeaderSize)
	if !ok {
		return false
	}
	if header[gbaFixedByteOffset] != 0x96 {
		return false
	}
	var sum uint8
	for i := gbaTitleOffset; i < gbaChecksumOffset; i++ {
		sum += header[i]
	}
	expected := uint8(0) - (sum + 0x19)
	return expected == header[gbaChecksumOffset]
}

func (*GBA) Validate(r io.ReaderAt, size int64) bool {
	if size <= 0 {
		return false
	}
	return gbaHeaderValid(r, size)
}

func (p *GBA) ExtractMetadata(r io.ReaderAt, size int64) (Metadata, error) {
	meta := make(Metadata)
	meta.Set(MetaPlatform, p.DisplayName())
	if size < gbaHeaderSize {
		return meta, nil
	}
	header, ok := readAt(r, 0, gbaHeaderSize)
	if !ok {
		return meta, nil
	}
	meta.Set(MetaTitle, extractPrintable(header[gbaTitleOffset:gbaTitleOffset+gbaTitleSize]))
	meta.Set(MetaSerial, extractPrintable(header[gbaGameCodeOffset:gbaGameCodeOffset+gbaGameCodeSize]))
	meta.Set("maker_code", extractPrintable(header[gbaMakerCodeOffset:gbaMakerCodeOffset+gbaMakerCodeSize]))
	return meta, nil
}

func (p *GBA) CheckHeader(r io.ReaderAt, size int64) HeaderCheck {
	if size <= 0 {
		return headerTruncated("empty file")
	}
	if size < gbaHeaderSize {
		return headerTruncated("file shorter than cartridge header")
	}
	if !gbaHeaderValid(r, size) {
		return headerInvalid("header checksum mismatch")
	}
	return headerOK()
}
