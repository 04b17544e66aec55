package hashing

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// compressedExtensions maps transparent compression wrappers to openers.
var compressedExtensions = map[string]struct{}{
	".gz":  {},
	".zst": {},
	".xz":  {},
}

// IsCompressed reports whether a path carries a transparent compression
// extension whose payload should be hashed instead of the container.
func IsCompressed(path string) bool {
	_, ok := compressedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// InnerName strips the compression extension, yielding the payload filename
// used for system classification.
func InnerName(path string) string {
	if !IsCompressed(path) {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// OpenDecompressed opens path and returns a reader over its decompressed
// payload.
func OpenDecompressed(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return &decompressReader{Reader: zr, closers: []io.Closer{zr, file}}, nil
	case ".zst":
		zr, err := zstd.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		payload := zr.IOReadCloser()
		return &decompressReader{Reader: payload, closers: []io.Closer{payload, file}}, nil
	case ".xz":
		xr, err := xz.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("open xz stream: %w", err)
		}
		return &decompressReader{Reader: xr, closers: []io.Closer{file}}, nil
	default:
		_ = file.Close()
		return nil, fmt.Errorf("not a compressed file: %s", path)
	}
}

type decompressReader struct {
	io.Reader
	closers []io.Closer
}

func (d *decompressReader) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
