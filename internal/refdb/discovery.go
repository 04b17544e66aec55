package refdb

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// systemKeywords maps catalog system identifiers to the naming-convention
// keywords DAT releases embed in their filenames.
var systemKeywords = map[string][]string{
	"nes":      {"Nintendo - Nintendo Entertainment System"},
	"snes":     {"Nintendo - Super Nintendo Entertainment System"},
	"n64":      {"Nintendo - Nintendo 64"},
	"gb":       {"Nintendo - Game Boy"},
	"gba":      {"Nintendo - Game Boy Advance"},
	"gamecube": {"Nintendo - GameCube"},
	"genesis":  {"Sega - Mega Drive - Genesis"},
	"psx":      {"Sony - PlayStation"},
	"ps2":      {"Sony - PlayStation 2"},
	"psp":      {"Sony - PlayStation Portable"},
}

// searchSubdirs are checked under the DAT root in addition to the root
// itself, matching how No-Intro and Redump packs are usually unpacked.
var searchSubdirs = []string{"no-intro", "redump"}

// FindDat locates the best DAT file for a system under datDir. When several
// candidates match, the lexically greatest filename wins, which prefers the
// newest date-stamped release. Returns "" when no DAT is found.
func FindDat(datDir, system string) string {
	keywords, ok := systemKeywords[strings.ToLower(system)]
	if !ok {
		return ""
	}

	searchDirs := []string{datDir}
	for _, sub := range searchSubdirs {
		searchDirs = append(searchDirs, filepath.Join(datDir, sub))
	}

	var candidates []string
	for _, dir := range searchDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".dat") {
				continue
			}
			stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			for _, keyword := range keywords {
				if strings.Contains(stem, keyword) {
					candidates = append(candidates, filepath.Join(dir, entry.Name()))
					break
				}
			}
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool {
		return filepath.Base(candidates[i]) > filepath.Base(candidates[j])
	})
	return candidates[0]
}

// LoadForSystem discovers and parses the reference index for one system.
// A missing DAT yields an empty index, not an error.
func LoadForSystem(datDir, system string) (*Index, error) {
	path := FindDat(datDir, system)
	if path == "" {
		return NewIndex(), nil
	}
	dat, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return NewIndex(dat), nil
}
