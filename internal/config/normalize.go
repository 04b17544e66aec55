package config

import (
	"fmt"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeQuality()
	c.normalizeDuplicates()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DatDir) == "" {
		c.Paths.DatDir = defaultDatDir
	}
	if c.Paths.DatDir, err = expandPath(c.Paths.DatDir); err != nil {
		return fmt.Errorf("paths.dat_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.QuarantineDir) == "" {
		c.Paths.QuarantineDir = defaultQuarantineDir
	}
	if c.Paths.QuarantineDir, err = expandPath(c.Paths.QuarantineDir); err != nil {
		return fmt.Errorf("paths.quarantine_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DatabasePath) != "" {
		if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
			return fmt.Errorf("paths.database_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeScan() {
	if c.Scan.Workers <= 0 {
		c.Scan.Workers = runtime.NumCPU()
	}
	if c.Scan.RetryAttempts <= 0 {
		c.Scan.RetryAttempts = defaultScanRetryAttempts
	}
	if c.Scan.RetryDelayMillis <= 0 {
		c.Scan.RetryDelayMillis = defaultScanRetryDelayMS
	}
	if c.Scan.ChunkSizeKiB <= 0 {
		c.Scan.ChunkSizeKiB = defaultScanChunkKiB
	}
}

func (c *Config) normalizeQuality() {
	if c.Quality.StructureWeight <= 0 {
		c.Quality.StructureWeight = defaultStructureWeight
	}
	if c.Quality.HeaderWeight <= 0 {
		c.Quality.HeaderWeight = defaultHeaderWeight
	}
	if c.Quality.ChecksumWeight <= 0 {
		c.Quality.ChecksumWeight = defaultChecksumWeight
	}
	if c.Quality.VerificationWeight <= 0 {
		c.Quality.VerificationWeight = defaultVerificationWeight
	}
	if c.Quality.MinorPenalty <= 0 {
		c.Quality.MinorPenalty = defaultMinorPenalty
	}
}

func (c *Config) normalizeDuplicates() {
	if c.Duplicates.FuzzyThreshold == 0 {
		c.Duplicates.FuzzyThreshold = defaultFuzzyThreshold
	}
	if c.Duplicates.SizeTolerance == 0 {
		c.Duplicates.SizeTolerance = defaultSizeTolerance
	}
	if len(c.Duplicates.RegionPriority) == 0 {
		c.Duplicates.RegionPriority = append([]string(nil), defaultRegionPriority...)
	}
	for i, region := range c.Duplicates.RegionPriority {
		c.Duplicates.RegionPriority[i] = strings.TrimSpace(region)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
