package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Configuration errors (1xxx)
	ErrCodeConfigNotFound   ErrorCode = "SSDW1001"
	ErrCodeConfigInvalid    ErrorCode = "SSDW1002"
	ErrCodeConfigMissing    ErrorCode = "SSDW1003"
	ErrCodeConfigPermission ErrorCode = "SSDW1004"

	// File system errors (2xxx)
	ErrCodeFileNotFound   ErrorCode = "SSDW2001"
	ErrCodeFilePermission ErrorCode = "SSDW2002"
	ErrCodeFileCorrupted  ErrorCode = "SSDW2003"
	ErrCodeFileOperation  ErrorCode = "SSDW2004"

	// Scrubbing errors (3xxx)
	ErrCodeScrubFailed     ErrorCode = "SSDW3001"
	ErrCodeBadHeader       ErrorCode = "SSDW3002"
	ErrCodeUnparseableDate ErrorCode = "SSDW3003"
	ErrCodeColumnNotFound  ErrorCode = "SSDW3004"
	ErrCodeMalformedRecord ErrorCode = "SSDW3005"

	// Warehouse/SQL errors (4xxx)
	ErrCodeSQLOpen        ErrorCode = "SSDW4001"
	ErrCodeSQLExecution   ErrorCode = "SSDW4002"
	ErrCodeSQLTransaction ErrorCode = "SSDW4003"
	ErrCodeSchemaCreate   ErrorCode = "SSDW4004"
	ErrCodeLoadAborted    ErrorCode = "SSDW4005"
	ErrCodeNoResults      ErrorCode = "SSDW4006"

	// Validation errors (5xxx)
	ErrCodeValidationFailed     ErrorCode = "SSDW5001"
	ErrCodeInvalidInput         ErrorCode = "SSDW5002"
	ErrCodeRequiredField        ErrorCode = "SSDW5003"
	ErrCodeReferentialIntegrity ErrorCode = "SSDW5004"

	// System errors (9xxx)
	ErrCodeInternal ErrorCode = "SSDW9001"
	ErrCodeTimeout  ErrorCode = "SSDW9002"
	ErrCodeUnknown  ErrorCode = "SSDW9999"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // System failure, requires immediate attention
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed, but system continues
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with issues
	SeverityInfo     ErrorSeverity = "INFO"     // Informational, not an error
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Severity:    SeverityError,
		Context:     make(map[string]interface{}),
		Stack:       captureStack(),
		Timestamp:   time.Now(),
		Recoverable: false,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit some properties
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'smartsales init' to recreate the configuration",
			"Refer to the configuration documentation",
		)
}

// FileError creates a file-system error for a dataset file
func FileError(message string, path string, cause error) *AppError {
	return Wrap(cause, ErrCodeFileOperation, message).
		WithContext("path", path).
		WithSuggestions(
			"Verify the file exists under the configured data directory",
			"Run 'smartsales init' to scaffold the data directories",
		)
}

// ScrubError creates a data-scrubbing error for a dataset
func ScrubError(message string, dataset string, cause error) *AppError {
	return Wrap(cause, ErrCodeScrubFailed, message).
		WithContext("dataset", dataset).
		AsRecoverable()
}

// SQLError creates a warehouse SQL execution error
func SQLError(message string, query string, cause error) *AppError {
	err := Wrap(cause, ErrCodeSQLExecution, message).
		WithContext("query", truncateString(query, 200))

	if cause != nil {
		errStr := cause.Error()
		if strings.Contains(errStr, "no such table") || strings.Contains(errStr, "no such column") {
			_ = err.WithSuggestions(
				"Run 'smartsales load' to rebuild the warehouse schema",
				"Check for typos in table or column names",
			)
		} else if strings.Contains(errStr, "database is locked") {
			_ = err.WithSuggestions(
				"Close other programs holding the warehouse file open",
				"Power BI and notebook sessions should connect read-only",
			)
		}
	}

	return err
}

// ValidationError creates a validation error
func ValidationError(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeValidationFailed, fmt.Sprintf("Validation failed for %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value).
		WithSeverity(SeverityWarning).
		AsRecoverable()
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error. Errors that carry
// no code at all map to ErrCodeUnknown.
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeUnknown
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
