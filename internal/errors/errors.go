package errors

import (
	stderrors "errors"
	"fmt"
)

// CatError is the structured error type for catcrawler.
// It provides rich context for error handling, logging, and user presentation.
type CatError struct {
	// Code is the unique error code (e.g., "ERR_301_INDEX_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (NotFound, IO, Corrupt, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *CatError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CatError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with CatError.
func (e *CatError) Is(target error) bool {
	if t, ok := target.(*CatError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *CatError) WithDetail(key, value string) *CatError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *CatError) WithSuggestion(suggestion string) *CatError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CatError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *CatError {
	return &CatError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a CatError from an existing error.
// The error's message becomes the CatError message.
func Wrap(code string, err error) *CatError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// NotFound creates an error for a missing volume.
func NotFound(message string, cause error) *CatError {
	return New(ErrCodeVolumeNotFound, message, cause)
}

// IOFailure creates an error for a failed write.
func IOFailure(message string, cause error) *CatError {
	return New(ErrCodeWriteFailed, message, cause)
}

// Corrupt creates an error for an unreadable catalog store.
func Corrupt(message string, cause error) *CatError {
	return New(ErrCodeCorruptCatalog, message, cause).
		WithSuggestion("run 'catcrawler purge --force' to discard the catalog and start over")
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *CatError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *CatError {
	return New(ErrCodeInternal, message, cause)
}

// As finds the first CatError in err's chain.
func As(err error) (*CatError, bool) {
	var ce *CatError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	if ce, ok := As(err); ok {
		return ce.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a CatError.
// Returns empty string if not a CatError.
func GetCode(err error) string {
	if ce, ok := As(err); ok {
		return ce.Code
	}
	return ""
}

// GetCategory extracts the category from a CatError.
// Returns empty string if not a CatError.
func GetCategory(err error) Category {
	if ce, ok := As(err); ok {
		return ce.Category
	}
	return ""
}

// IsCategory reports whether err carries the given category anywhere in its chain.
func IsCategory(err error, c Category) bool {
	return GetCategory(err) == c
}

// Process exit codes, one per category.
const (
	ExitOK         = 0
	ExitInternal   = 1
	ExitValidation = 2
	ExitNotFound   = 3
	ExitIO         = 4
	ExitCorrupt    = 5
)

// ExitCode maps an error to the process exit code for its category.
// Errors that are not CatErrors exit with ExitInternal.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetCategory(err) {
	case CategoryValidation:
		return ExitValidation
	case CategoryNotFound:
		return ExitNotFound
	case CategoryIO:
		return ExitIO
	case CategoryCorrupt:
		return ExitCorrupt
	default:
		return ExitInternal
	}
}
