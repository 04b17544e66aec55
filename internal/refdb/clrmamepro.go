package refdb

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	cmpNameRe    = regexp.MustCompile(`name\s+"([^"]+)"`)
	cmpVersionRe = regexp.MustCompile(`version\s+"([^"]+)"`)
	cmpSizeRe    = regexp.MustCompile(`size\s+(\d+)`)
	cmpCRCRe     = regexp.MustCompile(`crc\s+([0-9A-Fa-f]+)`)
	cmpMD5Re     = regexp.MustCompile(`md5\s+([0-9A-Fa-f]+)`)
	cmpSHA1Re    = regexp.MustCompile(`sha1\s+([0-9A-Fa-f]+)`)

	cmpHeaderOpenRe = regexp.MustCompile(`clrmamepro\s*\(`)
	cmpGameOpenRe   = regexp.MustCompile(`game\s*\(`)
	cmpROMOpenRe    = regexp.MustCompile(`rom\s*\(`)
)

// nestedBlocks yields the contents of balanced parenthesized blocks whose
// opener matches re.
func nestedBlocks(content string, re *regexp.Regexp) []string {
	var blocks []string
	for _, loc := range re.FindAllStringIndex(content, -1) {
		depth := 1
		end := loc[1]
		for depth > 0 && end < len(content) {
			switch content[end] {
			case '(':
				depth++
			case ')':
				depth--
			}
			end++
		}
		if depth == 0 {
			blocks = append(blocks, content[loc[1]:end-1])
		}
	}
	return blocks
}

func cmpField(re *regexp.Regexp, block string) string {
	if m := re.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	return ""
}

func parseClrMamePro(data []byte) (*DatFile, error) {
	content := string(data)
	dat := &DatFile{}

	if headers := nestedBlocks(content, cmpHeaderOpenRe); len(headers) > 0 {
		dat.Name = cmpField(cmpNameRe, headers[0])
		dat.Version = cmpField(cmpVersionRe, headers[0])
	}

	for _, gameBlock := range nestedBlocks(content, cmpGameOpenRe) {
		gameName := cmpField(cmpNameRe, gameBlock)
		for _, romBlock := range nestedBlocks(gameBlock, cmpROMOpenRe) {
			size, _ := strconv.ParseInt(cmpField(cmpSizeRe, romBlock), 10, 64)
			dat.ROMs = append(dat.ROMs, ROM{
				GameName: gameName,
				Name:     cmpField(cmpNameRe, romBlock),
				Size:     size,
				CRC32:    strings.ToLower(cmpField(cmpCRCRe, romBlock)),
				MD5:      strings.ToLower(cmpField(cmpMD5Re, romBlock)),
				SHA1:     strings.ToLower(cmpField(cmpSHA1Re, romBlock)),
			})
		}
	}
	return dat, nil
}
