package hashing

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// MemberInfo describes one file inside an archive.
type MemberInfo struct {
	Name string
	Size int64
}

// Archive provides read access to files within a container format.
type Archive interface {
	// List returns all regular files in the archive.
	List() ([]MemberInfo, error)
	// Open opens a member for reading and returns its uncompressed size.
	Open(name string) (io.ReadCloser, int64, error)
	// Close releases the archive.
	Close() error
}

// archiveExtensions maps supported container extensions to openers.
var archiveExtensions = map[string]func(string) (Archive, error){
	".zip": openZip,
	".7z":  openSevenZip,
	".rar": openRAR,
}

// IsArchive reports whether a path is a supported archive container.
func IsArchive(path string) bool {
	_, ok := archiveExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// OpenArchive opens a container file based on its extension.
func OpenArchive(path string) (Archive, error) {
	opener, ok := archiveExtensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Ext(path))
	}
	return opener(path)
}

// PrimaryMember picks the archive member most likely to be the ROM payload:
// the largest file, with name order breaking ties.
func PrimaryMember(arc Archive) (MemberInfo, error) {
	members, err := arc.List()
	if err != nil {
		return MemberInfo{}, err
	}
	if len(members) == 0 {
		return MemberInfo{}, fmt.Errorf("archive has no members")
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Size != members[j].Size {
			return members[i].Size > members[j].Size
		}
		return members[i].Name < members[j].Name
	})
	return members[0], nil
}

// BufferMember reads one member fully into memory so header validation can
// seek over it.
func BufferMember(arc Archive, name string) (io.ReaderAt, int64, error) {
	reader, size, err := arc.Open(name)
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, 0, fmt.Errorf("read archive member %s: %w", name, err)
	}
	if size > 0 && int64(len(data)) != size {
		return nil, 0, fmt.Errorf("archive member %s truncated: got %d of %d bytes", name, len(data), size)
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
