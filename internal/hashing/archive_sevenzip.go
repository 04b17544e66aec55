package hashing

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

type sevenZipArchive struct {
	reader *sevenzip.ReadCloser
}

func openSevenZip(path string) (Archive, error) {
	reader, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open 7z archive: %w", err)
	}
	return &sevenZipArchive{reader: reader}, nil
}

func (sza *sevenZipArchive) List() ([]MemberInfo, error) {
	members := make([]MemberInfo, 0, len(sza.reader.File))
	for _, file := range sza.reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		members = append(members, MemberInfo{
			Name: file.Name,
			Size: file.FileInfo().Size(),
		})
	}
	return members, nil
}

func (sza *sevenZipArchive) Open(name string) (io.ReadCloser, int64, error) {
	name = filepath.ToSlash(name)
	for _, file := range sza.reader.File {
		if strings.EqualFold(file.Name, name) {
			r, err := file.Open()
			if err != nil {
				return nil, 0, fmt.Errorf("open member in 7z: %w", err)
			}
			return r, file.FileInfo().Size(), nil
		}
	}
	return nil, 0, fmt.Errorf("member %s not found in 7z", name)
}

func (sza *sevenZipArchive) Close() error {
	return sza.reader.Close()
}
