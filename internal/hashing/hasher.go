package hashing

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"sort"
)

// Supported algorithm names.
const (
	AlgCRC32  = "crc32"
	AlgSHA1   = "sha1"
	AlgMD5    = "md5"
	AlgSHA256 = "sha256"
)

// DefaultAlgorithms is the standard scan set.
var DefaultAlgorithms = []string{AlgCRC32, AlgSHA1}

// DeepAlgorithms is the set used when deep verification is enabled.
var DeepAlgorithms = []string{AlgCRC32, AlgSHA1, AlgMD5, AlgSHA256}

const defaultChunkSize = 64 * 1024

// crcDigest adapts hash/crc32 to the hash.Hash encoding used below.
type crcDigest struct {
	hash.Hash32
}

func (d crcDigest) Sum(b []byte) []byte {
	s := d.Sum32()
	return append(b, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

func newDigest(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case AlgCRC32:
		return crcDigest{crc32.NewIEEE()}, nil
	case AlgSHA1:
		return sha1.New(), nil
	case AlgMD5:
		return md5.New(), nil
	case AlgSHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", algorithm)
	}
}

// Compute reads r once and returns lowercase hex digests for every requested
// algorithm. An empty algorithm set returns an empty map without reading.
// Cancellation is checked between chunks.
func Compute(ctx context.Context, r io.Reader, algorithms []string, chunkSize int) (map[string]string, int64, error) {
	digests := make(map[string]string, len(algorithms))
	if len(algorithms) == 0 {
		return digests, 0, nil
	}
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	names := make([]string, 0, len(algorithms))
	hashers := make(map[string]hash.Hash, len(algorithms))
	writers := make([]io.Writer, 0, len(algorithms))
	for _, algorithm := range algorithms {
		if _, dup := hashers[algorithm]; dup {
			continue
		}
		h, err := newDigest(algorithm)
		if err != nil {
			return nil, 0, err
		}
		names = append(names, algorithm)
		hashers[algorithm] = h
		writers = append(writers, h)
	}
	sort.Strings(names)

	sink := io.MultiWriter(writers...)
	buf := make([]byte, chunkSize)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, total, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			if _, werr := sink.Write(buf[:n]); werr != nil {
				return nil, total, fmt.Errorf("update digests: %w", werr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, total, fmt.Errorf("read for hashing: %w", err)
		}
	}

	for _, name := range names {
		digests[name] = fmt.Sprintf("%x", hashers[name].Sum(nil))
	}
	return digests, total, nil
}

// Algorithms returns the configured scan set: the default pair, extended by
// md5 and sha256 when deep verification is on.
func Algorithms(deep bool) []string {
	if deep {
		return append([]string(nil), DeepAlgorithms...)
	}
	return append([]string(nil), DefaultAlgorithms...)
}
