package systems

import (
	"path/filepath"
	"regexp"
	"strings"
)

// regionTags maps lowercase bracket-tag spellings to canonical region names.
var regionTags = map[string]string{
	"world":     "World",
	"w":         "World",
	"usa":       "USA",
	"us":        "USA",
	"u":         "USA",
	"europe":    "Europe",
	"eur":       "Europe",
	"e":         "Europe",
	"japan":     "Japan",
	"jpn":       "Japan",
	"j":         "Japan",
	"asia":      "Asia",
	"korea":     "Korea",
	"k":         "Korea",
	"australia": "Australia",
	"brazil":    "Brazil",
}

var (
	bracketGroupRe = regexp.MustCompile(`[(\[{]([^)\]}]*)[)\]}]`)
	versionRe      = regexp.MustCompile(`(?i)^(?:v(\d+(?:\.\d+)*)|rev\s*([0-9A-Za-z]+))$`)
)

// ParseFilenameTags extracts region and version hints from the bracketed tags
// conventionally embedded in ROM filenames, for example
// "Example Quest (USA) (Rev 1).sfc".
func ParseFilenameTags(path string) Metadata {
	meta := make(Metadata)
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	for _, group := range bracketGroupRe.FindAllStringSubmatch(base, -1) {
		for _, tag := range strings.Split(group[1], ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if region, ok := regionTags[strings.ToLower(tag)]; ok {
				meta.Set(MetaRegion, region)
				continue
			}
			if m := versionRe.FindStringSubmatch(tag); m != nil {
				if m[1] != "" {
					meta.Set(MetaVersion, "v"+m[1])
				} else {
					meta.Set(MetaVersion, "Rev "+m[2])
				}
			}
		}
	}
	return meta
}

// BaseTitle strips extension and bracketed tags from a filename, leaving the
// bare title.
func BaseTitle(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = bracketGroupRe.ReplaceAllString(base, "")
	return strings.Join(strings.Fields(base), " ")
}
