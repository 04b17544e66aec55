package refdb

import (
	"os"
	"path/filepath"
	"testing"
)

const xmlDat = `<?xml version="1.0"?>
<datafile>
  <header>
    <name>Nintendo - Super Nintendo Entertainment System</name>
    <version>20240301</version>
  </header>
  <game name="Example Quest (USA)">
    <rom name="Example Quest (USA).sfc" size="524288" crc="1A2B3C4D" md5="0123456789abcdef0123456789abcdef" sha1="da39a3ee5e6b4b0d3255bfef95601890afd80709"/>
  </game>
  <game name="Other Game (Europe)">
    <rom name="Other Game (Europe).sfc" size="1048576" crc="deadbeef"/>
  </game>
</datafile>`

const cmpDat = `clrmamepro (
	name "Sega - Mega Drive - Genesis"
	version "20240105"
)

game (
	name "Example Quest (World)"
	rom ( name "Example Quest (World).md" size 1048576 crc CAFEBABE sha1 aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa )
)
`

func TestParseSniffsXML(t *testing.T) {
	dat, err := Parse([]byte(xmlDat))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if dat.Name != "Nintendo - Super Nintendo Entertainment System" || dat.Version != "20240301" {
		t.Fatalf("unexpected header: %+v", dat)
	}
	if len(dat.ROMs) != 2 {
		t.Fatalf("expected 2 roms, got %d", len(dat.ROMs))
	}
	first := dat.ROMs[0]
	if first.CRC32 != "1a2b3c4d" {
		t.Fatalf("crc not lowercased: %q", first.CRC32)
	}
	if first.GameName != "Example Quest (USA)" || first.Size != 524288 {
		t.Fatalf("unexpected rom: %+v", first)
	}
}

func TestParseSniffsClrMamePro(t *testing.T) {
	dat, err := Parse([]byte(cmpDat))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if dat.Name != "Sega - Mega Drive - Genesis" {
		t.Fatalf("unexpected name %q", dat.Name)
	}
	if len(dat.ROMs) != 1 {
		t.Fatalf("expected 1 rom, got %d", len(dat.ROMs))
	}
	rom := dat.ROMs[0]
	if rom.GameName != "Example Quest (World)" || rom.CRC32 != "cafebabe" || rom.Size != 1048576 {
		t.Fatalf("unexpected rom: %+v", rom)
	}
}

func TestLookupTriState(t *testing.T) {
	dat, err := Parse([]byte(xmlDat))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	idx := NewIndex(dat)

	verified := idx.Lookup(map[string]string{"sha1": "DA39A3EE5E6B4B0D3255BFEF95601890AFD80709"}, 524288)
	if verified.Outcome != OutcomeVerified || verified.GameName != "Example Quest (USA)" {
		t.Fatalf("unexpected sha1 match: %+v", verified)
	}

	// The reference entry has no cryptographic digest, so crc32 plus size is
	// the strongest shared evidence and verifies.
	crcOnly := idx.Lookup(map[string]string{"crc32": "deadbeef"}, 1048576)
	if crcOnly.Outcome != OutcomeVerified || crcOnly.GameName != "Other Game (Europe)" {
		t.Fatalf("unexpected crc match: %+v", crcOnly)
	}

	// The crc32 points at an entry whose recorded sha1 disagrees with the
	// computed one: a corrupted or altered copy of that entry.
	altered := idx.Lookup(map[string]string{
		"sha1":  "ffffffffffffffffffffffffffffffffffffffff",
		"crc32": "1a2b3c4d",
	}, 524288)
	if altered.Outcome != OutcomeMismatch {
		t.Fatalf("expected mismatch for altered copy, got %+v", altered)
	}
	if altered.GameName != "Example Quest (USA)" {
		t.Fatalf("mismatch lost its reference name: %+v", altered)
	}

	// Colliding crc with the wrong size ties the file to nothing.
	wrongSize := idx.Lookup(map[string]string{"crc32": "deadbeef"}, 42)
	if wrongSize.Outcome != OutcomeUnknown {
		t.Fatalf("expected unknown for wrong size, got %+v", wrongSize)
	}

	miss := idx.Lookup(map[string]string{
		"sha1":  "ffffffffffffffffffffffffffffffffffffffff",
		"crc32": "00000000",
	}, 10)
	if miss.Outcome != OutcomeUnknown {
		t.Fatalf("expected unknown for total miss, got %+v", miss)
	}

	empty := NewIndex()
	unknown := empty.Lookup(map[string]string{"sha1": "da39a3ee5e6b4b0d3255bfef95601890afd80709"}, 1)
	if unknown.Outcome != OutcomeUnknown {
		t.Fatalf("expected unknown on empty index, got %+v", unknown)
	}
}

func TestFindDatPrefersNewestRelease(t *testing.T) {
	root := t.TempDir()
	noIntro := filepath.Join(root, "no-intro")
	if err := os.MkdirAll(noIntro, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	old := filepath.Join(root, "Nintendo - Super Nintendo Entertainment System (20230101).dat")
	newer := filepath.Join(noIntro, "Nintendo - Super Nintendo Entertainment System (20240301).dat")
	for _, path := range []string{old, newer} {
		if err := os.WriteFile(path, []byte(xmlDat), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	found := FindDat(root, "snes")
	if found != newer {
		t.Fatalf("FindDat = %q, want %q", found, newer)
	}

	if FindDat(root, "psx") != "" {
		t.Fatal("expected no psx dat")
	}
}

func TestLoadForSystemMissingDatYieldsEmptyIndex(t *testing.T) {
	idx, err := LoadForSystem(t.TempDir(), "snes")
	if err != nil {
		t.Fatalf("LoadForSystem: %v", err)
	}
	if !idx.Empty() {
		t.Fatal("expected empty index")
	}
}
