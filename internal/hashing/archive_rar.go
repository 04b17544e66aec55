package hashing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nwaples/rardecode/v2"
)

type rarArchive struct {
	file *os.File
}

func openRAR(path string) (Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rar archive: %w", err)
	}
	return &rarArchive{file: file}, nil
}

func (ra *rarArchive) newReader() (*rardecode.Reader, error) {
	if _, err := ra.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek rar archive: %w", err)
	}
	reader, err := rardecode.NewReader(ra.file)
	if err != nil {
		return nil, fmt.Errorf("create rar reader: %w", err)
	}
	return reader, nil
}

func (ra *rarArchive) List() ([]MemberInfo, error) {
	reader, err := ra.newReader()
	if err != nil {
		return nil, err
	}
	var members []MemberInfo
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rar header: %w", err)
		}
		if header.IsDir {
			continue
		}
		members = append(members, MemberInfo{
			Name: header.Name,
			Size: header.UnPackedSize,
		})
	}
	return members, nil
}

func (ra *rarArchive) Open(name string) (io.ReadCloser, int64, error) {
	reader, err := ra.newReader()
	if err != nil {
		return nil, 0, err
	}
	name = filepath.ToSlash(name)
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read rar header: %w", err)
		}
		if header.IsDir {
			continue
		}
		if strings.EqualFold(filepath.ToSlash(header.Name), name) {
			return io.NopCloser(reader), header.UnPackedSize, nil
		}
	}
	return nil, 0, fmt.Errorf("member %s not found in rar", name)
}

func (ra *rarArchive) Close() error {
	return ra.file.Close()
}
