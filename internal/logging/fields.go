package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldPath is the standardized structured logging key for file paths.
	FieldPath = "path"
	// FieldSystem is the standardized structured logging key for system identifiers.
	FieldSystem = "system"
	// FieldScanID is the standardized structured logging key for scan run identifiers.
	FieldScanID = "scan_id"
	// FieldAttempt is the standardized structured logging key for retry attempt counts.
	FieldAttempt = "attempt"
)
