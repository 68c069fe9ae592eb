package errors

import (
	"fmt"
)

// RunError is the structured error type for partseek.
// It provides rich context for error handling, logging, and user presentation.
type RunError struct {
	// Code is the unique error code (e.g., "ERR_202_INCOMPLETE_SCHEME").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Scheme, Oracle, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Recoverable indicates the search may skip the offending candidate
	// and continue instead of aborting the run.
	Recoverable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *RunError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with RunError.
func (e *RunError) Is(target error) bool {
	if t, ok := target.(*RunError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *RunError) WithDetail(key, value string) *RunError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *RunError) WithSuggestion(suggestion string) *RunError {
	e.Suggestion = suggestion
	return e
}

// New creates a new RunError with the given code and message.
// Category, severity, and the recoverable flag are derived from the code.
func New(code string, message string, cause error) *RunError {
	return &RunError{
		Code:        code,
		Message:     message,
		Category:    categoryFromCode(code),
		Severity:    severityFromCode(code),
		Cause:       cause,
		Recoverable: isRecoverableCode(code),
	}
}

// Wrap creates a RunError from an existing error.
// The error's message becomes the RunError message.
func Wrap(code string, err error) *RunError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *RunError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// SchemeError creates a structural scheme-model error.
func SchemeError(code string, message string) *RunError {
	return New(code, message, nil)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *RunError {
	return New(ErrCodeInternal, message, cause)
}

// IsRecoverable checks if an error is a candidate-level recoverable error.
// Returns true if the error is a RunError with the Recoverable flag set.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*RunError); ok {
		return re.Recoverable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the run before any expensive work.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*RunError); ok {
		return re.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a RunError.
// Returns empty string if not a RunError.
func GetCode(err error) string {
	if re, ok := err.(*RunError); ok {
		return re.Code
	}
	return ""
}

// GetCategory extracts the category from a RunError.
// Returns empty string if not a RunError.
func GetCategory(err error) Category {
	if re, ok := err.(*RunError); ok {
		return re.Category
	}
	return ""
}
