package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateDuplicates(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	if c.Scan.RetryAttempts < 1 || c.Scan.RetryAttempts > 10 {
		return fmt.Errorf("scan.retry_attempts must be between 1 and 10, got %d", c.Scan.RetryAttempts)
	}
	return nil
}

func (c *Config) validateDuplicates() error {
	if c.Duplicates.FuzzyThreshold < 0 || c.Duplicates.FuzzyThreshold > 1 {
		return errors.New("duplicates.fuzzy_threshold must be between 0 and 1")
	}
	if c.Duplicates.SizeTolerance < 0 || c.Duplicates.SizeTolerance > 1 {
		return errors.New("duplicates.size_tolerance must be between 0 and 1")
	}
	for _, region := range c.Duplicates.RegionPriority {
		if region == "" {
			return errors.New("duplicates.region_priority must not contain empty entries")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
