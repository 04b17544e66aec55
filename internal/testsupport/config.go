package testsupport

import (
	"path/filepath"
	"testing"

	"romshelf/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.DatDir = filepath.Join(base, "dats")
	cfg.Paths.QuarantineDir = filepath.Join(base, "quarantine")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Scan.Workers = 2

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithWorkers overrides the scan worker count on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.Workers = workers
	}
}

// WithDeepVerify enables deep verification hashing on the test config.
func WithDeepVerify() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.DeepVerify = true
	}
}
