package hashing

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

type zipArchive struct {
	reader *zip.ReadCloser
}

func openZip(path string) (Archive, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip archive: %w", err)
	}
	return &zipArchive{reader: reader}, nil
}

func (za *zipArchive) List() ([]MemberInfo, error) {
	members := make([]MemberInfo, 0, len(za.reader.File))
	for _, file := range za.reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		members = append(members, MemberInfo{
			Name: file.Name,
			Size: int64(file.UncompressedSize64),
		})
	}
	return members, nil
}

func (za *zipArchive) Open(name string) (io.ReadCloser, int64, error) {
	name = filepath.ToSlash(name)
	for _, file := range za.reader.File {
		if strings.EqualFold(file.Name, name) {
			r, err := file.Open()
			if err != nil {
				return nil, 0, fmt.Errorf("open member in zip: %w", err)
			}
			return r, int64(file.UncompressedSize64), nil
		}
	}
	return nil, 0, fmt.Errorf("member %s not found in zip", name)
}

func (za *zipArchive) Close() error {
	return za.reader.Close()
}
