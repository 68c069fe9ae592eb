// Package errors provides structured error handling for partseek.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Scheme structural errors
//   - 3XX: Oracle errors
//   - 4XX: Store and I/O errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryScheme indicates structural scheme-model errors.
	CategoryScheme Category = "SCHEME"
	// CategoryOracle indicates scoring-oracle errors.
	CategoryOracle Category = "ORACLE"
	// CategoryIO indicates store and file I/O errors.
	CategoryIO Category = "IO"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort the run.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but the run can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound    = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid     = "ERR_102_CONFIG_INVALID"
	ErrCodeUnknownStrategy   = "ERR_103_UNKNOWN_STRATEGY"
	ErrCodeNoUserSchemes     = "ERR_104_NO_USER_SCHEMES"
	ErrCodeUnknownCriterion  = "ERR_105_UNKNOWN_CRITERION"

	// Scheme structural errors (200-299)
	ErrCodeUnknownPartition  = "ERR_201_UNKNOWN_PARTITION"
	ErrCodeIncompleteScheme  = "ERR_202_INCOMPLETE_SCHEME"
	ErrCodeOverlappingScheme = "ERR_203_OVERLAPPING_SCHEME"
	ErrCodeDuplicateScheme   = "ERR_204_DUPLICATE_SCHEME"
	ErrCodeEmptySubset       = "ERR_205_EMPTY_SUBSET"

	// Oracle errors (300-399)
	ErrCodeOracleDegenerate = "ERR_301_ORACLE_DEGENERATE"
	ErrCodeOracleFailed     = "ERR_302_ORACLE_FAILED"
	ErrCodeOracleExec       = "ERR_303_ORACLE_EXEC"

	// Store and I/O errors (400-499)
	ErrCodeStoreOpen    = "ERR_401_STORE_OPEN"
	ErrCodeStoreIO      = "ERR_402_STORE_IO"
	ErrCodeOutputLocked = "ERR_403_OUTPUT_LOCKED"
	ErrCodeReportWrite  = "ERR_404_REPORT_WRITE"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract the leading digit (e.g., '2' from "ERR_201_UNKNOWN_PARTITION")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryScheme
	case '3':
		return CategoryOracle
	case '4':
		return CategoryIO
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeOracleDegenerate:
		// Degenerate candidates are skipped, never fatal for the run.
		return SeverityWarning
	case ErrCodeConfigNotFound, ErrCodeConfigInvalid, ErrCodeUnknownStrategy,
		ErrCodeNoUserSchemes, ErrCodeUnknownCriterion, ErrCodeOutputLocked:
		return SeverityFatal
	default:
		return SeverityError
	}
}

// isRecoverableCode checks if an error code represents a recoverable
// candidate-level failure rather than a run-level failure.
func isRecoverableCode(code string) bool {
	return code == ErrCodeOracleDegenerate
}
