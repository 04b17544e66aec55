package refdb

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// ROM is one reference entry from a DAT file. Digests are lowercase hex.
type ROM struct {
	GameName string
	Name     string
	Size     int64
	CRC32    string
	MD5      string
	SHA1     string
}

// DatFile is a parsed reference database.
type DatFile struct {
	Name    string
	Version string
	ROMs    []ROM
}

const sniffWindow = 512

// ParseFile loads a DAT from disk, sniffing the format from the first bytes:
// files containing "<?xml" or "<datafile" parse as Logiqx XML, everything
// else as ClrMamePro.
func ParseFile(path string) (*DatFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dat file: %w", err)
	}
	return Parse(data)
}

// Parse parses DAT content already in memory.
func Parse(data []byte) (*DatFile, error) {
	head := data
	if len(head) > sniffWindow {
		head = head[:sniffWindow]
	}
	if bytes.Contains(head, []byte("<?xml")) || bytes.Contains(head, []byte("<datafile")) {
		return parseXML(bytes.NewReader(data))
	}
	return parseClrMamePro(data)
}

// ParseReader parses DAT content from a stream.
func ParseReader(r io.Reader) (*DatFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dat stream: %w", err)
	}
	return Parse(data)
}
