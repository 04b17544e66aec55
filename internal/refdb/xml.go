package refdb

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type xmlDatafile struct {
	Header xmlHeader `xml:"header"`
	Games  []xmlGame `xml:"game"`
}

type xmlHeader struct {
	Name    string `xml:"name"`
	Version string `xml:"version"`
}

type xmlGame struct {
	Name string   `xml:"name,attr"`
	ROMs []xmlROM `xml:"rom"`
}

type xmlROM struct {
	Name string `xml:"name,attr"`
	Size string `xml:"size,attr"`
	CRC  string `xml:"crc,attr"`
	MD5  string `xml:"md5,attr"`
	SHA1 string `xml:"sha1,attr"`
}

func parseXML(r io.Reader) (*DatFile, error) {
	var doc xmlDatafile
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse xml dat: %w", err)
	}

	dat := &DatFile{
		Name:    strings.TrimSpace(doc.Header.Name),
		Version: strings.TrimSpace(doc.Header.Version),
	}
	for _, game := range doc.Games {
		for _, rom := range game.ROMs {
			size, _ := strconv.ParseInt(rom.Size, 10, 64)
			dat.ROMs = append(dat.ROMs, ROM{
				GameName: game.Name,
				Name:     rom.Name,
				Size:     size,
				CRC32:    strings.ToLower(rom.CRC),
				MD5:      strings.ToLower(rom.MD5),
				SHA1:     strings.ToLower(rom.SHA1),
			})
		}
	}
	return dat, nil
}
