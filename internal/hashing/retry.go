package hashing

import (
	"context"
	"io"
	"time"
)

// Retry runs op up to attempts times, waiting delay between failures.
// The final error is returned unwrapped; cancellation during a wait returns
// the context error instead.
func Retry(ctx context.Context, attempts int, delay time.Duration, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// FileHasher hashes files with bounded retries on transient read failures.
type FileHasher struct {
	Attempts  int
	Delay     time.Duration
	ChunkSize int
}

// Compute hashes one stream source. Each attempt reopens the source and
// restarts the read from the beginning so a partial pass never contaminates
// the digests.
func (f FileHasher) Compute(ctx context.Context, open func() (io.ReadCloser, error), algorithms []string) (map[string]string, int64, error) {
	var (
		digests map[string]string
		total   int64
	)
	err := Retry(ctx, f.Attempts, f.Delay, func() error {
		r, err := open()
		if err != nil {
			return err
		}
		defer r.Close()
		digests, total, err = Compute(ctx, r, algorithms, f.ChunkSize)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return digests, total, nil
}
