package errors

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"
)

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeFileSystem
	ErrorTypeParsing
	ErrorTypeConfiguration
	ErrorTypeNotFound
	ErrorTypeSecret
	ErrorTypeKeystore
)

// Error codes used across the resolver and the CLI.
const (
	CodeMissingPropertiesFile = "MISSING_PROPERTIES_FILE"
	CodeMissingKey            = "MISSING_KEY"
	CodeStoreFileNotFound     = "STORE_FILE_NOT_FOUND"
	CodePropertiesParse       = "PROPERTIES_PARSE_FAILED"
	CodeSecretResolve         = "SECRET_RESOLVE_FAILED"
	CodeIncompleteCredential  = "INCOMPLETE_CREDENTIAL"
	CodeKeystoreRead          = "KEYSTORE_READ_FAILED"
	CodeKeystorePassword      = "KEYSTORE_WRONG_PASSWORD"
	CodeKeystoreUnsupported   = "KEYSTORE_UNSUPPORTED"
	CodeConfigLoad            = "CONFIG_LOAD_FAILED"
	CodeInvalidFormat         = "INVALID_FORMAT"
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeFileSystem:
		return "FILESYSTEM"
	case ErrorTypeParsing:
		return "PARSING"
	case ErrorTypeConfiguration:
		return "CONFIGURATION"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeSecret:
		return "SECRET"
	case ErrorTypeKeystore:
		return "KEYSTORE"
	default:
		return "UNKNOWN"
	}
}

// SignError represents an error with context and suggestions
type SignError struct {
	Type        ErrorType         `json:"type"`
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Cause       error             `json:"cause,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Stack       []string          `json:"stack,omitempty"`
}

// Sentinels for errors.Is. Matching is done on Type and Code only.
var (
	ErrMissingPropertiesFile = &SignError{Type: ErrorTypeNotFound, Code: CodeMissingPropertiesFile}
	ErrMissingKey            = &SignError{Type: ErrorTypeValidation, Code: CodeMissingKey}
	ErrStoreFileNotFound     = &SignError{Type: ErrorTypeNotFound, Code: CodeStoreFileNotFound}
	ErrIncompleteCredential  = &SignError{Type: ErrorTypeValidation, Code: CodeIncompleteCredential}
	ErrKeystorePassword      = &SignError{Type: ErrorTypeKeystore, Code: CodeKeystorePassword}
	ErrKeystoreUnsupported   = &SignError{Type: ErrorTypeKeystore, Code: CodeKeystoreUnsupported}
)

// Error implements the error interface
func (e *SignError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *SignError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *SignError) Is(target error) bool {
	if t, ok := target.(*SignError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *SignError) WithContext(key, value string) *SignError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error
func (e *SignError) WithSuggestion(suggestion string) *SignError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *SignError) WithSuggestions(suggestions []string) *SignError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// FormatDetailed returns a detailed error message with context and suggestions
func (e *SignError) FormatDetailed() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("❌ %s Error [%s]: %s\n", e.Type.String(), e.Code, e.Message))

	if len(e.Context) > 0 {
		builder.WriteString("\n📋 Context:\n")
		keys := make([]string, 0, len(e.Context))
		for key := range e.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			builder.WriteString(fmt.Sprintf("   %s: %s\n", key, e.Context[key]))
		}
	}

	if e.Cause != nil {
		builder.WriteString(fmt.Sprintf("\n🔍 Underlying cause: %v\n", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		builder.WriteString("\n💡 Suggestions:\n")
		for _, suggestion := range e.Suggestions {
			builder.WriteString(fmt.Sprintf("   • %s\n", suggestion))
		}
	}

	return builder.String()
}

// NewError creates a new SignError
func NewError(errorType ErrorType, code, message string) *SignError {
	return &SignError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]string),
		Stack:     captureStack(),
	}
}

// WrapError wraps an existing error with SignError
func WrapError(err error, errorType ErrorType, code, message string) *SignError {
	return &SignError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Cause:     err,
		Timestamp: time.Now(),
		Context:   make(map[string]string),
		Stack:     captureStack(),
	}
}

// captureStack captures the current stack trace
func captureStack() []string {
	var stack []string

	// Skip this function and the constructor
	for i := 2; i < 10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		if strings.Contains(file, "signcfg") {
			stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		}
	}

	return stack
}

// Common error constructors

// NewMissingPropertiesFileError reports that the properties file does not exist
func NewMissingPropertiesFileError(path string) *SignError {
	return NewError(ErrorTypeNotFound, CodeMissingPropertiesFile,
		fmt.Sprintf("properties file not found at %s", path)).
		WithContext("path", path).
		WithSuggestions([]string{
			"Create the properties file with storeFile, storePassword, keyAlias and keyPassword",
			"Run 'signcfg init' to write an example file",
		})
}

// NewMissingKeyError reports that a required key is absent from the properties file
func NewMissingKeyError(key, path string) *SignError {
	return NewError(ErrorTypeValidation, CodeMissingKey,
		fmt.Sprintf("%s is missing from %s", key, path)).
		WithContext("key", key).
		WithContext("path", path).
		WithSuggestion(fmt.Sprintf("Add a '%s=' line to the properties file", key))
}

// NewStoreFileNotFoundError reports that the referenced keystore does not exist
func NewStoreFileNotFoundError(path string) *SignError {
	return NewError(ErrorTypeNotFound, CodeStoreFileNotFound,
		fmt.Sprintf("keystore not found at %s", path)).
		WithContext("path", path).
		WithSuggestions([]string{
			"Check that storeFile is relative to the store base directory",
			"Verify the keystore was copied onto this machine",
		})
}

// NewParsingError creates a parsing error
func NewParsingError(code, message string) *SignError {
	return NewError(ErrorTypeParsing, code, message).
		WithSuggestions([]string{
			"Verify the file uses key=value lines",
			"Check for unbalanced escapes or invalid unicode sequences",
		})
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(code, message string) *SignError {
	return NewError(ErrorTypeConfiguration, code, message).
		WithSuggestions([]string{
			"Check the configuration file syntax",
			"Run 'signcfg init' to regenerate configuration",
		})
}

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger Logger
	stats  *ErrorStats
}

// Logger interface for error logging
type Logger interface {
	Error(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// ErrorStats tracks error statistics
type ErrorStats struct {
	TotalErrors  int               `json:"total_errors"`
	ErrorsByType map[ErrorType]int `json:"errors_by_type"`
	ErrorsByCode map[string]int    `json:"errors_by_code"`
	LastError    *SignError        `json:"last_error,omitempty"`
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		stats: &ErrorStats{
			ErrorsByType: make(map[ErrorType]int),
			ErrorsByCode: make(map[string]int),
		},
	}
}

// Handle logs an error and records it in the statistics. It returns the
// error as a *SignError so callers can render it.
func (eh *ErrorHandler) Handle(err error) *SignError {
	if err == nil {
		return nil
	}

	signErr := AsSignError(err)

	eh.stats.TotalErrors++
	eh.stats.ErrorsByType[signErr.Type]++
	eh.stats.ErrorsByCode[signErr.Code]++
	eh.stats.LastError = signErr

	if eh.logger != nil {
		eh.logger.Error("Error occurred: %s [%s] %s", signErr.Type.String(), signErr.Code, signErr.Message)
		for key, value := range signErr.Context {
			eh.logger.Debug("Error context: %s = %s", key, value)
		}
	}

	return signErr
}

// GetStats returns error statistics
func (eh *ErrorHandler) GetStats() *ErrorStats {
	return eh.stats
}

// AsSignError returns err as a *SignError, wrapping it when needed.
func AsSignError(err error) *SignError {
	for e := err; e != nil; {
		if se, ok := e.(*SignError); ok {
			return se
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return WrapError(err, ErrorTypeUnknown, "UNKNOWN", err.Error())
}
