package systems

import (
	"encoding/binary"
	"io"
)

const (
	gcMagicOffset  = 0x1C
	gcMagicValue   = 0xC2339F3D
	gcGameCodeSize = 6
	gcTitleOffset  = 0x20
	gcTitleSize    = 64
	gcHeaderSize   = 0x60
)

// GameCube identifies Nintendo GameCube disc images by the magic word at
// 0x1C in the disc header.
type GameCube struct{}

// NewGameCube returns the GameCube provider.
func NewGameCube() *GameCube { return &GameCube{} }

func (*GameCube) ID() string           { return "gamecube" }
func (*GameCube) DisplayName() string  { return "Nintendo GameCube" }
func (*GameCube) Extensions() []string { return []string{".gcm", ".iso", ".ciso"} }

func gcMagicValid(r io.ReaderAt, size int64) bool {
	if size < gcHeaderSize {
		return false
	}
	word, ok := readAt(r, gcMagicOffset, 4)
	if !ok {
		return false
	}
	return binary.BigEndian.Uint32(word) == gcMagicValue
}

func (*GameCube) Validate(r io.ReaderAt, size int64) bool {
	if size <= 0 {
		return false
	}
	return gcMagicValid(r, size)
}

func (p *GameCube) ExtractMetadata(r io.ReaderAt, size int64) (Metadata, error) {
	meta := make(Metadata)
	meta.Set(MetaPlatform, p.DisplayName())
	if !gcMagicValid(r, size) {
		return meta, nil
	}
	code, ok := readAt(r, 0, gcGameCodeSize)
	if ok {
		meta.Set(MetaSerial, extractPrintable(code))
	}
	title, ok := readAt(r, gcTitleOffset, gcTitleSize)
	if ok {
		meta.Set(MetaTitle, extractPrintable(title))
	}
	return meta, nil
}

func (p *GameCube) CheckHeader(r io.ReaderAt, size int64) HeaderCheck {
	if size <= 0 {
		return headerTruncated("empty file")
	}
	if size < gcHeaderSize {
		return headerTruncated("file shorter than disc header")
	}
	if !gcMagicValid(r, size) {
		return headerInvalid("disc magic mismatch")
	}
	return headerOK()
}
