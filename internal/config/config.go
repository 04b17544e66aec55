package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LibraryDir    string `toml:"library_dir"`
	DatDir        string `toml:"dat_dir"`
	QuarantineDir string `toml:"quarantine_dir"`
	LogDir        string `toml:"log_dir"`
	DatabasePath  string `toml:"database_path"`
}

// Scan contains configuration for the catalog scan pipeline.
type Scan struct {
	Workers            int  `toml:"workers"`
	DeepVerify         bool `toml:"deep_verify"`
	DecompressHashing  bool `toml:"decompress_hashing"`
	RetryAttempts      int  `toml:"retry_attempts"`
	RetryDelayMillis   int  `toml:"retry_delay_ms"`
	ChunkSizeKiB       int  `toml:"chunk_size_kib"`
	IncludeArchives    bool `toml:"include_archives"`
	PruneMissingFiles  bool `toml:"prune_missing_files"`
	ExcludeHiddenFiles bool `toml:"exclude_hidden_files"`
}

// Quality contains the scoring weights for the quality verdict model.
// The point values are heuristics, not a contract; only the tier boundaries
// are load-bearing.
type Quality struct {
	StructureWeight    int `toml:"structure_weight"`
	HeaderWeight       int `toml:"header_weight"`
	ChecksumWeight     int `toml:"checksum_weight"`
	VerificationWeight int `toml:"verification_weight"`
	MinorPenalty       int `toml:"minor_penalty"`
}

// Duplicates contains thresholds and preferences for duplicate detection.
type Duplicates struct {
	FuzzyThreshold float64  `toml:"fuzzy_threshold"`
	SizeTolerance  float64  `toml:"size_tolerance"`
	RegionPriority []string `toml:"region_priority"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for romshelf.
//
// Configuration sections by subsystem:
//   - Paths: library root, DAT directory, quarantine, logs, catalog database
//   - Scan: worker count, hashing depth, retry policy
//   - Quality: scoring weights (tier boundaries are fixed)
//   - Duplicates: fuzzy threshold, size tolerance, region preference order
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Scan       Scan       `toml:"scan"`
	Quality    Quality    `toml:"quality"`
	Duplicates Duplicates `toml:"duplicates"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/romshelf/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("romshelf.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for catalog operation.
// LibraryDir is created on a best-effort basis so read-only commands can run
// when external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.QuarantineDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// DatabasePath returns the resolved location of the catalog database.
func (c *Config) DatabasePath() string {
	if strings.TrimSpace(c.Paths.DatabasePath) != "" {
		return c.Paths.DatabasePath
	}
	return filepath.Join(c.Paths.LogDir, "catalog.db")
}

// SampleConfig returns the embedded sample configuration text.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves a leading ~ and returns a cleaned absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
