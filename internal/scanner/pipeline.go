package scanner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"romshelf/internal/catalog"
	"romshelf/internal/hashing"
	"romshelf/internal/logging"
	"romshelf/internal/quality"
	"romshelf/internal/refdb"
	"romshelf/internal/systems"
)

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeAdded
	outcomeUpdated
	outcomeVerified
	outcomeVerifiedUpdate
	outcomeFailed
)

// headSampleLimit bounds how much payload is buffered for header validation.
// Every console header the providers inspect sits inside the first 1 MiB.
const headSampleLimit = 2 << 20

// payload is the hashable content of a library file: the file itself, the
// decompressed stream of a .gz/.zst/.xz wrapper, or the primary member of an
// archive container.
type payload struct {
	// name carries the payload's own filename so classification sees the
	// inner extension, not the container's.
	name string
	// size is the uncompressed payload size, or -1 when unknown upfront.
	size int64
	open func() (io.ReadCloser, error)
	done func() error
}

func (sc *Scanner) processFile(ctx context.Context, logger *slog.Logger, path string) outcome {
	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("stat failed", logging.String(logging.FieldPath, path), logging.Error(err))
		return outcomeFailed
	}

	existing, err := sc.store.Get(ctx, path)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		logger.Warn("catalog lookup failed", logging.String(logging.FieldPath, path), logging.Error(err))
		return outcomeFailed
	}
	if existing != nil && !sc.needsRescan(existing, info) {
		logger.Debug("unchanged", logging.String(logging.FieldPath, path))
		return outcomeSkipped
	}

	pl, err := sc.openPayload(path)
	if err != nil {
		sc.recordFailure(ctx, logger, path, err)
		return outcomeFailed
	}
	if pl.done != nil {
		defer pl.done()
	}

	if len(sc.registry.Candidates(pl.name)) == 0 {
		if err := sc.store.LogAction(ctx, path, catalog.ActionSkipped, "no console claims extension"); err != nil {
			logger.Warn("audit write failed", logging.String(logging.FieldPath, path), logging.Error(err))
		}
		logger.Debug("unsupported file", logging.String(logging.FieldPath, path))
		return outcomeSkipped
	}

	digests, hashed, err := sc.hasher.Compute(ctx, pl.open, hashing.Algorithms(sc.cfg.Scan.DeepVerify))
	if err != nil {
		sc.recordFailure(ctx, logger, path, err)
		return outcomeFailed
	}
	size := pl.size
	if size < 0 {
		size = hashed
	}

	head := sc.headSample(ctx, pl.open, size)
	provider, validated := sc.registry.Classify(pl.name, head, size)
	if provider == nil {
		return outcomeSkipped
	}

	meta := make(systems.Metadata)
	if head != nil {
		if extracted, err := provider.ExtractMetadata(head, size); err == nil {
			meta.Merge(extracted)
		}
	}
	meta.Merge(systems.ParseFilenameTags(pl.name))
	meta.Merge(systems.ParseFilenameTags(path))

	idx, err := sc.indexFor(provider.ID())
	if err != nil {
		logger.Warn("reference database unavailable",
			logging.String(logging.FieldSystem, provider.ID()), logging.Error(err))
		idx = refdb.NewIndex()
	}
	match := idx.Lookup(digests, size)

	verdict := sc.scorer.Score(quality.Input{
		Path:        path,
		Size:        size,
		Reader:      head,
		Provider:    provider,
		Verified:    match.Outcome == refdb.OutcomeVerified,
		Mismatched:  match.Outcome == refdb.OutcomeMismatch,
		HasDigests:  true,
		HasMetadata: len(meta) > 0,
	})
	meta.Set("quality_score", strconv.Itoa(verdict.Score))
	meta.Set("quality_tier", string(verdict.Tier))

	status := catalog.StatusUnknown
	switch match.Outcome {
	case refdb.OutcomeVerified:
		status = catalog.StatusVerified
	case refdb.OutcomeMismatch:
		status = catalog.StatusMismatch
	}
	if verdict.Tier == quality.TierCorrupt {
		status = catalog.StatusCorrupt
	}

	entry := &catalog.Entry{
		Path:      path,
		System:    provider.ID(),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		Status:    status,
		CRC32:     digests[hashing.AlgCRC32],
		SHA1:      digests[hashing.AlgSHA1],
		MD5:       digests[hashing.AlgMD5],
		SHA256:    digests[hashing.AlgSHA256],
		MatchName: match.GameName,
		Metadata:  meta,
	}
	if err := sc.store.Upsert(ctx, entry); err != nil {
		logger.Warn("catalog write failed", logging.String(logging.FieldPath, path), logging.Error(err))
		return outcomeFailed
	}
	detail := "system=" + provider.ID() + " status=" + string(status) +
		" score=" + strconv.Itoa(verdict.Score)
	if !validated {
		detail += " classified=extension"
	}
	if err := sc.store.LogAction(ctx, path, catalog.ActionScanned, detail); err != nil {
		logger.Warn("audit write failed", logging.String(logging.FieldPath, path), logging.Error(err))
	}
	logger.Info("scanned",
		logging.String(logging.FieldPath, path),
		logging.String(logging.FieldSystem, provider.ID()),
		logging.String("status", string(status)),
		logging.Int("score", verdict.Score),
	)

	verified := status == catalog.StatusVerified
	switch {
	case existing == nil && verified:
		return outcomeVerified
	case existing == nil:
		return outcomeAdded
	case verified:
		return outcomeVerifiedUpdate
	default:
		return outcomeUpdated
	}
}

// needsRescan reports whether a file changed since it was cataloged. Size or
// modification time drift forces a rescan, as does a deep-verify run against
// an entry that only has the default digests.
func (sc *Scanner) needsRescan(existing *catalog.Entry, info os.FileInfo) bool {
	if existing.Size != info.Size() {
		return true
	}
	delta := info.ModTime().Sub(existing.ModTime)
	if delta < 0 {
		delta = -delta
	}
	if delta >= time.Second {
		return true
	}
	if sc.cfg.Scan.DeepVerify && (existing.MD5 == "" || existing.SHA256 == "") {
		return true
	}
	return false
}

// openPayload resolves the hashable content for a path. Container handling is
// opt-in per the scan configuration; when disabled the raw file is hashed.
func (sc *Scanner) openPayload(path string) (payload, error) {
	if sc.cfg.Scan.IncludeArchives && hashing.IsArchive(path) {
		arc, err := hashing.OpenArchive(path)
		if err != nil {
			return payload{}, err
		}
		member, err := hashing.PrimaryMember(arc)
		if err != nil {
			arc.Close()
			return payload{}, err
		}
		return payload{
			name: member.Name,
			size: member.Size,
			open: func() (io.ReadCloser, error) {
				r, _, err := arc.Open(member.Name)
				return r, err
			},
			done: arc.Close,
		}, nil
	}
	if sc.cfg.Scan.DecompressHashing && hashing.IsCompressed(path) {
		return payload{
			name: hashing.InnerName(path),
			size: -1,
			open: func() (io.ReadCloser, error) { return hashing.OpenDecompressed(path) },
		}, nil
	}
	return payload{
		name: path,
		size: fileSize(path),
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// headSample buffers the leading bytes of a payload for header validation and
// structure checks. Reads retry with the same policy as hashing; nil is
// returned when every attempt fails.
func (sc *Scanner) headSample(ctx context.Context, open func() (io.ReadCloser, error), size int64) io.ReaderAt {
	limit := int64(headSampleLimit)
	if size >= 0 && size < limit {
		limit = size
	}
	var data []byte
	err := hashing.Retry(ctx, sc.hasher.Attempts, sc.hasher.Delay, func() error {
		r, err := open()
		if err != nil {
			return err
		}
		defer r.Close()
		data, err = io.ReadAll(io.LimitReader(r, limit))
		return err
	})
	if err != nil {
		return nil
	}
	return bytes.NewReader(data)
}

func (sc *Scanner) recordFailure(ctx context.Context, logger *slog.Logger, path string, cause error) {
	if err := sc.store.LogAction(ctx, path, catalog.ActionHashFailed, cause.Error()); err != nil {
		logger.Warn("audit write failed", logging.String(logging.FieldPath, path), logging.Error(err))
	}
	logger.Warn("file unreadable", logging.String(logging.FieldPath, path), logging.Error(cause))
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return info.Size()
}
