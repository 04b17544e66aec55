package systems

import "io"

const (
	gbHeaderSize     = 0x150
	gbLogoOffset     = 0x104
	gbLogoSize       = 48
	gbTitleOffset    = 0x134
	gbTitleSize      = 16
	gbCGBFlagOffset  = 0x143
	gbChecksumOffset = 0x14D
)

// gbBootLogo is the bitmap the boot ROM checks on every cartridge. Its
// presence at 0x104 is the strongest signal a file is a Game Boy dump.
var gbBootLogo = []byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// GameBoy identifies Game Boy and Game Boy Color cartridge dumps.
type GameBoy struct{}

// NewGameBoy returns the Game Boy provider.
func NewGameBoy() *GameBoy { return &GameBoy{} }

func (*GameBoy) ID() string           { return "gb" }
func (*GameBoy) DisplayName() string  { return "Game Boy" }
func (*GameBoy) Extensions() []string { return []string{".gb", ".gbc"} }

func gbLogoValid(r io.ReaderAt, size int64) bool {
	if size < gbHeaderSize {
		return false
	}
	logo, ok := readAt(r, gbLogoOffset, gbLogoSize)
	if !ok {
		return false
	}
	for i, b := range gbBootLogo {
		if logo[i] != b {
			return false
		}
	}
	return true
}

func (*GameBoy) Validate(r io.ReaderAt, size int64) bool {
	if size <= 0 {
		return false
	}
	return gbLogoValid(r, size)
}

func (p *GameBoy) ExtractMetadata(r io.ReaderAt, size int64) (Metadata, error) {
	meta := make(Metadata)
	meta.Set(MetaPlatform, p.DisplayName())
	if size < gbHeaderSize {
		return meta, nil
	}
	header, ok := readAt(r, gbTitleOffset, gbTitleSize)
	if !ok {
		return meta, nil
	}
	meta.Set(MetaTitle, extractPrintable(header))
	cgb, ok := readAt(r, gbCGBFlagOffset, 1)
	if ok && (cgb[0] == 0x80 || cgb[0] == 0xC0) {
		meta.Set("color", "true")
	}
	return meta, nil
}

func (p *GameBoy) CheckHeader(r io.ReaderAt, size int64) HeaderCheck {
	if size <= 0 {
		return headerTruncated("empty file")
	}
	if size < gbHeaderSize {
		return headerTruncated("file shorter than cartridge header")
	}
	if !gbLogoValid(r, size) {
		return headerInvalid("boot logo mismatch")
	}
	// The boot ROM also verifies this 8-bit checksum over 0x134..0x14C.
	data, ok := readAt(r, gbTitleOffset, gbChecksumOffset-gbTitleOffset+1)
	if !ok {
		return headerInvalid("header unreadable")
	}
	var sum uint8
	for _, b := range data[:len(data)-1] {
		sum = sum - b - 1
	}
	if sum != data[len(data)-1] {
		return headerInvalid("header checksum mismatch")
	}
	return headerOK()
}
