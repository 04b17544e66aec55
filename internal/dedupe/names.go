package dedupe

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	bracketTagRe = regexp.MustCompile(`[(\[{][^)\]}]*[)\]}]`)
	versionTagRe = regexp.MustCompile(`(?i)\(?v\d+(?:\.\d+)*\)?|\(?rev\s*[0-9A-Za-z]+\)?`)

	// foldTransformer strips diacritics so "Pokémon" and "Pokemon" normalize
	// to the same key.
	foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize reduces a game name to a comparison key: bracketed tags removed,
// diacritics folded, lowercased, and everything but letters, digits and
// single spaces dropped.
func Normalize(name string) string {
	name = bracketTagRe.ReplaceAllString(name, " ")
	if folded, _, err := transform.String(foldTransformer, name); err == nil {
		name = folded
	}
	name = strings.ToLower(name)

	var b strings.Builder
	lastSpace := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// StripVersionTags removes revision markers so "Game (Rev 1)" and
// "Game v1.2" share a version-duplicate key.
func StripVersionTags(name string) string {
	return strings.TrimSpace(versionTagRe.ReplaceAllString(name, " "))
}
