package common

// File permission constants for consistent handling across the pipeline
const (
	// FilePermissionSecure is used for sensitive files (config, logs)
	FilePermissionSecure = 0600

	// FilePermissionNormal is used for generated data files (prepared CSVs, reports)
	FilePermissionNormal = 0644

	// DirPermissionSecure is used for directories containing sensitive files
	DirPermissionSecure = 0700

	// DirPermissionNormal is used for data directories
	DirPermissionNormal = 0755
)
