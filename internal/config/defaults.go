package config

const (
	defaultLibraryDir    = "~/roms"
	defaultDatDir        = "~/.local/share/romshelf/dats"
	defaultQuarantineDir = "~/.local/share/romshelf/quarantine"
	defaultLogDir        = "~/.local/share/romshelf/logs"

	defaultScanRetryAttempts = 3
	defaultScanRetryDelayMS  = 150
	defaultScanChunkKiB      = 1024

	defaultStructureWeight    = 30
	defaultHeaderWeight       = 30
	defaultChecksumWeight     = 20
	defaultVerificationWeight = 20
	defaultMinorPenalty       = 5

	defaultFuzzyThreshold = 0.85
	defaultSizeTolerance  = 0.10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// defaultRegionPriority orders regions from most to least preferred when
// ranking duplicate keepers.
var defaultRegionPriority = []string{
	"World", "USA", "Europe", "Japan", "Asia", "Korea", "Australia", "Brazil",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir:    defaultLibraryDir,
			DatDir:        defaultDatDir,
			QuarantineDir: defaultQuarantineDir,
			LogDir:        defaultLogDir,
		},
		Scan: Scan{
			Workers:            0, // 0 selects runtime.NumCPU
			DeepVerify:         false,
			DecompressHashing:  true,
			RetryAttempts:      defaultScanRetryAttempts,
			RetryDelayMillis:   defaultScanRetryDelayMS,
			ChunkSizeKiB:       defaultScanChunkKiB,
			IncludeArchives:    true,
			PruneMissingFiles:  true,
			ExcludeHiddenFiles: true,
		},
		Quality: Quality{
			StructureWeight:    defaultStructureWeight,
			HeaderWeight:       defaultHeaderWeight,
			ChecksumWeight:     defaultChecksumWeight,
			VerificationWeight: defaultVerificationWeight,
			MinorPenalty:       defaultMinorPenalty,
		},
		Duplicates: Duplicates{
			FuzzyThreshold: defaultFuzzyThreshold,
			SizeTolerance:  defaultSizeTolerance,
			RegionPriority: append([]string(nil), defaultRegionPriority...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
