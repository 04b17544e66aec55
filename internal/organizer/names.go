package organizer

import (
	"path/filepath"
	"strings"

	"romshelf/internal/catalog"
	"romshelf/internal/systems"
)

// forbiddenRunes never appear in generated filenames regardless of platform.
const forbiddenRunes = `/\:*?"<>|`

// SanitizeFilename strips path separators and shell-hostile characters from a
// name component and collapses runs of whitespace.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20:
			b.WriteByte(' ')
		case strings.ContainsRune(forbiddenRunes, r):
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CanonicalName derives the preferred filename for an entry: the reference
// match name when the entry is verified, else the extracted title, else the
// current basename, with the serial appended in brackets when one was
// extracted and the original extension preserved.
func CanonicalName(entry *catalog.Entry) string {
	ext := strings.ToLower(filepath.Ext(entry.Path))

	name := entry.MatchName
	if name == "" {
		name = entry.Metadata[systems.MetaTitle]
	}
	if name == "" {
		base := filepath.Base(entry.Path)
		return SanitizeFilename(base)
	}
	name = SanitizeFilename(name)

	if serial := entry.Metadata[systems.MetaSerial]; serial != "" && !strings.Contains(name, serial) {
		name += " [" + SanitizeFilename(serial) + "]"
	}
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return name
}
