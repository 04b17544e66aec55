package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"romshelf/internal/catalog"
	"romshelf/internal/config"
	"romshelf/internal/hashing"
	"romshelf/internal/logging"
	"romshelf/internal/quality"
	"romshelf/internal/refdb"
	"romshelf/internal/systems"
)

// ErrScanInProgress is returned when another process holds the scan lock.
var ErrScanInProgress = errors.New("another scan is already running")

// Summary reports what one scan run did.
type Summary struct {
	ScanID   string
	Added    int
	Updated  int
	Removed  int
	Skipped  int
	Failed   int
	Verified int
	Duration time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("added=%d updated=%d removed=%d skipped=%d failed=%d verified=%d in %s",
		s.Added, s.Updated, s.Removed, s.Skipped, s.Failed, s.Verified, s.Duration.Round(time.Millisecond))
}

// Scanner runs library scans against one catalog store.
type Scanner struct {
	cfg      *config.Config
	store    *catalog.Store
	registry *systems.Registry
	scorer   *quality.Scorer
	hasher   hashing.FileHasher
	logger   *slog.Logger

	mu      sync.Mutex
	indexes map[string]*refdb.Index
}

// New builds a scanner over an open store.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{
		cfg:      cfg,
		store:    store,
		registry: systems.Default(logger),
		scorer:   quality.NewScorer(cfg.Quality),
		hasher: hashing.FileHasher{
			Attempts:  cfg.Scan.RetryAttempts,
			Delay:     time.Duration(cfg.Scan.RetryDelayMillis) * time.Millisecond,
			ChunkSize: cfg.Scan.ChunkSizeKiB * 1024,
		},
		logger:  logging.WithComponent(logger, "scanner"),
		indexes: make(map[string]*refdb.Index),
	}
}

// Scan walks the library and reconciles the catalog. Only one scan may run
// against a library at a time.
func (sc *Scanner) Scan(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{ScanID: uuid.NewString()}
	logger := sc.logger.With(logging.String(logging.FieldScanID, summary.ScanID))

	lock := flock.New(filepath.Join(sc.cfg.Paths.LogDir, "scan.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire scan lock: %w", err)
	}
	if !locked {
		return summary, ErrScanInProgress
	}
	defer lock.Unlock()

	logger.Info("scan started", logging.String("library", sc.cfg.Paths.LibraryDir))

	paths, err := sc.collect(ctx)
	if err != nil {
		return summary, err
	}

	workers := sc.cfg.Scan.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var (
		wg   sync.WaitGroup
		smu  sync.Mutex
		jobs = make(chan string)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				outcome := sc.processFile(ctx, logger, path)
				smu.Lock()
				switch outcome {
				case outcomeAdded:
					summary.Added++
				case outcomeUpdated:
					summary.Updated++
				case outcomeVerified:
					summary.Added++
					summary.Verified++
				case outcomeVerifiedUpdate:
					summary.Updated++
					summary.Verified++
				case outcomeSkipped:
					summary.Skipped++
				case outcomeFailed:
					summary.Failed++
				}
				smu.Unlock()
			}
		}()
	}

dispatch:
	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if sc.cfg.Scan.PruneMissingFiles {
		removed, err := sc.prune(ctx, logger)
		if err != nil {
			return summary, err
		}
		summary.Removed = removed
	}

	summary.Duration = time.Since(start)
	logger.Info("scan finished", logging.String("summary", summary.String()))
	return summary, nil
}

// collect walks the library and returns every candidate file path.
func (sc *Scanner) collect(ctx context.Context) ([]string, error) {
	var paths []string
	root := sc.cfg.Paths.LibraryDir
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("walk library: %w", err)
			}
			sc.logger.Warn("skipping unreadable path",
				logging.String(logging.FieldPath, path), logging.Error(err))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		hidden := (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) && path != root
		if d.IsDir() {
			if hidden && sc.cfg.Scan.ExcludeHiddenFiles {
				return fs.SkipDir
			}
			return nil
		}
		if hidden && sc.cfg.Scan.ExcludeHiddenFiles {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// prune removes catalog entries whose files no longer exist on disk.
func (sc *Scanner) prune(ctx context.Context, logger *slog.Logger) (int, error) {
	paths, err := sc.store.AllPaths(ctx, "")
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if _, err := os.Stat(path); err == nil || !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		ok, err := sc.store.Remove(ctx, path)
		if err != nil {
			return removed, err
		}
		if !ok {
			continue
		}
		if err := sc.store.LogAction(ctx, path, catalog.ActionPruned, "file missing from library"); err != nil {
			return removed, err
		}
		logger.Info("pruned missing file", logging.String(logging.FieldPath, path))
		removed++
	}
	return removed, nil
}

// indexFor lazily loads the reference index for a system. A missing DAT yields
// an empty index, which is cached so discovery runs once per system per scan.
func (sc *Scanner) indexFor(system string) (*refdb.Index, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if idx, ok := sc.indexes[system]; ok {
		return idx, nil
	}
	idx, err := refdb.LoadForSystem(sc.cfg.Paths.DatDir, system)
	if err != nil {
		return nil, err
	}
	sc.indexes[system] = idx
	return idx, nil
}
