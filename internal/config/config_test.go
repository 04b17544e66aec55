package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultNormalizesAndValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Scan.Workers < 1 {
		t.Fatalf("expected workers >= 1, got %d", cfg.Scan.Workers)
	}
	if !filepath.IsAbs(cfg.Paths.LibraryDir) {
		t.Fatalf("expected absolute library dir, got %q", cfg.Paths.LibraryDir)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
library_dir = "` + filepath.Join(dir, "roms") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[scan]
workers = 2
deep_verify = true

[duplicates]
fuzzy_threshold = 0.9
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Scan.Workers != 2 {
		t.Fatalf("workers = %d, want 2", cfg.Scan.Workers)
	}
	if !cfg.Scan.DeepVerify {
		t.Fatal("expected deep_verify true")
	}
	if cfg.Duplicates.FuzzyThreshold != 0.9 {
		t.Fatalf("fuzzy_threshold = %v, want 0.9", cfg.Duplicates.FuzzyThreshold)
	}
	// Unset sections keep defaults.
	if cfg.Quality.StructureWeight != defaultStructureWeight {
		t.Fatalf("structure_weight = %d, want default", cfg.Quality.StructureWeight)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "empty library dir",
			mutate: func(c *Config) { c.Paths.LibraryDir = "" },
			want:   "paths.library_dir",
		},
		{
			name:   "fuzzy threshold out of range",
			mutate: func(c *Config) { c.Duplicates.FuzzyThreshold = 1.5 },
			want:   "fuzzy_threshold",
		},
		{
			name:   "bad log format",
			mutate: func(c *Config) { c.Logging.Format = "yaml" },
			want:   "logging.format",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestDatabasePathDefaultsToLogDir(t *testing.T) {
	cfg := Default()
	cfg.Paths.LogDir = "/tmp/romshelf-logs"
	cfg.Paths.DatabasePath = ""
	if got := cfg.DatabasePath(); got != filepath.Join("/tmp/romshelf-logs", "catalog.db") {
		t.Fatalf("DatabasePath = %q", got)
	}
	cfg.Paths.DatabasePath = "/elsewhere/catalog.db"
	if got := cfg.DatabasePath(); got != "/elsewhere/catalog.db" {
		t.Fatalf("DatabasePath override = %q", got)
	}
}
