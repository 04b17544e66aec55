package systems

import "io"

const (
	snesLoROMHeader   = 0x7FC0
	snesHiROMHeader   = 0xFFC0
	snesHeaderSize    = 32
	snesTitleSize     = 21
	snesComplementOff = 0x1C
	snesChecksumOff   = 0x1E
	snesCopierHeader  = 512
)

// SNES identifies Super Nintendo cartridge dumps. The internal header lives
// at 0x7FC0 (LoROM) or 0xFFC0 (HiROM) and is located by requiring that the
// stored checksum and its complement sum to 0xFFFF. Copier dumps carry an
// extra 512-byte header, detected by file size modulo 1024.
type SNES struct{}

// NewSNES returns the Super Nintendo provider.
func NewSNES() *SNES { return &SNES{} }

func (*SNES) ID() string           { return "snes" }
func (*SNES) DisplayName() string  { return "Super Nintendo" }
func (*SNES) Extensions() []string { return []string{".sfc", ".smc"} }

func snesHeaderOffset(r io.ReaderAt, size int64) (int64, bool) {
	base := int64(0)
	if size%1024 == snesCopierHeader {
		base = snesCopierHeader
	}
	for _, start := range []int64{snesLoROMHeader, snesHiROMHeader} {
		offset := base + start
		if offset+snesHeaderSize > size {
			continue
		}
		header, ok := readAt(r, offset, snesHeaderSize)
		if !ok {
			continue
		}
		checksum := uint16(header[snesChecksumOff]) | uint16(header[snesChecksumOff+1])<<8
		complement := uint16(header[snesComplementOff]) | uint16(header[snesComplementOff+1])<<8
		if checksum+complement == 0xFFFF {
			return offset, true
		}
	}
	return 0, false
}

func (*SNES) Validate(r io.ReaderAt, size int64) bool {
	if size <= 0 {
		return false
	}
	_, ok := snesHeaderOffset(r, size)
	return ok
}

func (p *SNES) ExtractMetadata(r io.ReaderAt, size int64) (Metadata, error) {
	meta := make(Metadata)
	meta.Set(MetaPlatform, p.DisplayName())
	offset, ok := snesHeaderOffset(r, size)
	if !ok {
		return meta, nil
	}
	header, ok := readAt(r, offset, snesHeaderSize)
	if !ok {
		return meta, nil
	}
	meta.Set(MetaTitle, extractPrintable(header[:snesTitleSize]))
	if header[0x15]&0x01 != 0 {
		meta.Set("rom_layout", "HiROM")
	} else {
		meta.Set("rom_layout", "LoROM")
	}
	return meta, nil
}

func (p *SNES) CheckHeader(r io.ReaderAt, size int64) HeaderCheck {
	if size <= 0 {
		return headerTruncated("empty file")
	}
	if _, ok := snesHeaderOffset(r, size); !ok {
		return headerInvalid("no internal header with matching checksum complement")
	}
	return headerOK()
}
