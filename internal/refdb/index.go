package refdb

import "strings"

// Outcome is the tri-state result of matching a file against the reference
// database.
type Outcome string

const (
	// OutcomeVerified means a cryptographic digest matched a reference entry,
	// or a crc32 with matching size did and no stronger digest was available
	// on either side.
	OutcomeVerified Outcome = "VERIFIED"
	// OutcomeMismatch means a fast checksum pointed at a reference entry but
	// the cryptographic digest disagreed, so the file is a corrupted or
	// altered copy of that entry.
	OutcomeMismatch Outcome = "MISMATCH"
	// OutcomeUnknown means no reference entry matched, or no reference
	// database was available.
	OutcomeUnknown Outcome = "UNKNOWN"
)

// Match describes the result of one reference lookup.
type Match struct {
	Outcome  Outcome
	GameName string
	ROMName  string
	DatName  string
}

// Index holds hash lookups over one or more parsed DATs.
type Index struct {
	bySHA1  map[string][]ROM
	byMD5   map[string][]ROM
	byCRC32 map[string][]ROM
	datName string
}

// NewIndex builds an index over the given DATs. A nil or empty input returns
// an empty index whose lookups report OutcomeUnknown.
func NewIndex(dats ...*DatFile) *Index {
	idx := &Index{
		bySHA1:  make(map[string][]ROM),
		byMD5:   make(map[string][]ROM),
		byCRC32: make(map[string][]ROM),
	}
	for _, dat := range dats {
		if dat == nil {
			continue
		}
		if idx.datName == "" {
			idx.datName = dat.Name
		}
		for _, rom := range dat.ROMs {
			if rom.SHA1 != "" {
				idx.bySHA1[rom.SHA1] = append(idx.bySHA1[rom.SHA1], rom)
			}
			if rom.MD5 != "" {
				idx.byMD5[rom.MD5] = append(idx.byMD5[rom.MD5], rom)
			}
			if rom.CRC32 != "" {
				idx.byCRC32[rom.CRC32] = append(idx.byCRC32[rom.CRC32], rom)
			}
		}
	}
	return idx
}

// Empty reports whether the index holds no reference entries.
func (idx *Index) Empty() bool {
	if idx == nil {
		return true
	}
	return len(idx.bySHA1) == 0 && len(idx.byMD5) == 0 && len(idx.byCRC32) == 0
}

// Lookup matches a file's digests against the index. SHA1 is authoritative;
// md5 is tried next, then crc32 with a size cross-check since 32-bit sums
// collide. A crc32 hit can only verify when neither side carries a stronger
// digest: when a cryptographic digest was computed and the reference entry
// records one, reaching the crc32 stage means that digest already missed, so
// the hit is a mismatch against that entry. A file no pass can tie to any
// entry stays unknown.
func (idx *Index) Lookup(digests map[string]string, size int64) Match {
	if idx.Empty() {
		return Match{Outcome: OutcomeUnknown}
	}

	sha1 := strings.ToLower(digests["sha1"])
	md5 := strings.ToLower(digests["md5"])
	if sha1 != "" {
		if roms, ok := idx.bySHA1[sha1]; ok {
			return idx.verified(roms[0])
		}
	}
	if md5 != "" {
		if roms, ok := idx.byMD5[md5]; ok {
			return idx.verified(roms[0])
		}
	}
	if crc := strings.ToLower(digests["crc32"]); crc != "" {
		if roms, ok := idx.byCRC32[crc]; ok {
			for _, rom := range roms {
				if rom.Size != 0 && rom.Size != size {
					continue
				}
				if (sha1 != "" && rom.SHA1 != "") || (md5 != "" && rom.MD5 != "") {
					return Match{
						Outcome:  OutcomeMismatch,
						GameName: rom.GameName,
						ROMName:  rom.Name,
						DatName:  idx.datName,
					}
				}
				return idx.verified(rom)
			}
		}
	}
	return Match{Outcome: OutcomeUnknown, DatName: idx.datName}
}

func (idx *Index) verified(rom ROM) Match {
	return Match{
		Outcome:  OutcomeVerified,
		GameName: rom.GameName,
		ROMName:  rom.Name,
		DatName:  idx.datName,
	}
}
