// Package errors provides structured error handling for catcrawler.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Internal errors
//   - 2XX: Validation errors (bad arguments, duplicate volumes, config)
//   - 3XX: Not found errors (index files, volumes, catalog)
//   - 4XX: IO failures (write, delete, lock)
//   - 5XX: Corrupt catalog errors
//
// The hundreds digit also selects the process exit code, see ExitCode.
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
	// CategoryValidation indicates bad user input or configuration.
	CategoryValidation Category = "VALIDATION"
	// CategoryNotFound indicates a missing volume, index file or catalog.
	CategoryNotFound Category = "NOT_FOUND"
	// CategoryIO indicates a failed read, write, delete or lock.
	CategoryIO Category = "IO"
	// CategoryCorrupt indicates an unreadable catalog store.
	CategoryCorrupt Category = "CORRUPT"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Internal errors (100-199)
	ErrCodeInternal     = "ERR_101_INTERNAL"
	ErrCodeScanFailed   = "ERR_102_SCAN_FAILED"
	ErrCodeSearchFailed = "ERR_103_SEARCH_FAILED"

	// Validation errors (200-299)
	ErrCodeInvalidIndex    = "ERR_201_INVALID_INDEX"
	ErrCodeInvalidInput    = "ERR_202_INVALID_INPUT"
	ErrCodeDuplicateVolume = "ERR_203_DUPLICATE_VOLUME"
	ErrCodeConfigInvalid   = "ERR_204_CONFIG_INVALID"
	ErrCodeQueryEmpty      = "ERR_205_QUERY_EMPTY"

	// Not found errors (300-399)
	ErrCodeIndexNotFound   = "ERR_301_INDEX_NOT_FOUND"
	ErrCodeVolumeNotFound  = "ERR_302_VOLUME_NOT_FOUND"
	ErrCodeCatalogNotFound = "ERR_303_CATALOG_NOT_FOUND"

	// IO errors (400-499)
	ErrCodeWriteFailed  = "ERR_401_WRITE_FAILED"
	ErrCodeLockFailed   = "ERR_402_LOCK_FAILED"
	ErrCodeDeleteFailed = "ERR_403_DELETE_FAILED"
	ErrCodeReadFailed   = "ERR_404_READ_FAILED"

	// Corrupt catalog errors (500-599)
	ErrCodeCorruptCatalog     = "ERR_501_CORRUPT_CATALOG"
	ErrCodeUnsupportedVersion = "ERR_502_UNSUPPORTED_VERSION"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract the hundreds digit (e.g., '3' from "ERR_301_INDEX_NOT_FOUND")
	switch code[4] {
	case '2':
		return CategoryValidation
	case '3':
		return CategoryNotFound
	case '4':
		return CategoryIO
	case '5':
		return CategoryCorrupt
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryCorrupt, CategoryIO:
		return SeverityFatal
	case CategoryValidation:
		return SeverityWarning
	default:
		return SeverityError
	}
}
