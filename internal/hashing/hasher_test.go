package hashing

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
)

func TestComputeKnownDigests(t *testing.T) {
	digests, total, err := Compute(context.Background(), strings.NewReader("abc"), DeepAlgorithms, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	want := map[string]string{
		AlgCRC32:  "352441c2",
		AlgSHA1:   "a9993e364706816aba3e25717850c26c9cd0d89d",
		AlgMD5:    "900150983cd24fb0d6963f7d28e17f72",
		AlgSHA256: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
	}
	for algorithm, expected := range want {
		if digests[algorithm] != expected {
			t.Fatalf("%s = %s, want %s", algorithm, digests[algorithm], expected)
		}
	}
}

func TestComputeEmptyAlgorithmSet(t *testing.T) {
	digests, total, err := Compute(context.Background(), strings.NewReader("abc"), nil, 0)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(digests) != 0 || total != 0 {
		t.Fatalf("expected no work, got %v / %d bytes", digests, total)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	payload := bytes.Repeat([]byte{0xA5, 0x00, 0xFF}, 100000)
	first, _, err := Compute(context.Background(), bytes.NewReader(payload), DefaultAlgorithms, 4096)
	if err != nil {
		t.Fatalf("first Compute: %v", err)
	}
	second, _, err := Compute(context.Background(), bytes.NewReader(payload), DefaultAlgorithms, 64)
	if err != nil {
		t.Fatalf("second Compute: %v", err)
	}
	for algorithm, digest := range first {
		if second[algorithm] != digest {
			t.Fatalf("%s differs across chunk sizes: %s vs %s", algorithm, digest, second[algorithm])
		}
	}
}

func TestComputeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Compute(ctx, strings.NewReader("abc"), DefaultAlgorithms, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRetryStopsAfterSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestRetryReturnsFinalError(t *testing.T) {
	calls := 0
	wantErr := errors.New("persistent")
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected final error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestFileHasherRestartsEachAttempt(t *testing.T) {
	attempts := 0
	hasher := FileHasher{Attempts: 3, Delay: time.Millisecond}
	digests, total, err := hasher.Compute(context.Background(), func() (io.ReadCloser, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("transient open failure")
		}
		return io.NopCloser(strings.NewReader("abc")), nil
	}, DefaultAlgorithms)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if digests[AlgCRC32] != "352441c2" {
		t.Fatalf("crc32 = %s", digests[AlgCRC32])
	}
}

func TestOpenDecompressedGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.sfc.gz")
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte("payload-bytes")); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	r, err := OpenDecompressed(path)
	if err != nil {
		t.Fatalf("OpenDecompressed: %v", err)
	}
	defer r.Close()
	payload, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if string(payload) != "payload-bytes" {
		t.Fatalf("payload = %q", payload)
	}

	if InnerName(path) != filepath.Join(dir, "game.sfc") {
		t.Fatalf("InnerName = %q", InnerName(path))
	}
}

func TestZipArchivePrimaryMember(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.zip")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	small, err := zw.Create("readme.txt")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := small.Write([]byte("notes")); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	big, err := zw.Create("game.sfc")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := big.Write(bytes.Repeat([]byte{0x7F}, 2048)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write zip: %v", err)
	}

	if !IsArchive(path) {
		t.Fatal("expected .zip to be an archive")
	}
	arc, err := OpenArchive(path)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	defer arc.Close()

	primary, err := PrimaryMember(arc)
	if err != nil {
		t.Fatalf("PrimaryMember: %v", err)
	}
	if primary.Name != "game.sfc" || primary.Size != 2048 {
		t.Fatalf("unexpected primary member: %+v", primary)
	}

	reader, size, err := BufferMember(arc, primary.Name)
	if err != nil {
		t.Fatalf("BufferMember: %v", err)
	}
	if size != 2048 {
		t.Fatalf("size = %d", size)
	}
	probe := make([]byte, 4)
	if _, err := reader.ReadAt(probe, 1000); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if probe[0] != 0x7F {
		t.Fatalf("unexpected payload byte %#x", probe[0])
	}
}
