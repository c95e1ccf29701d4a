package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrPermission    ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Schema errors
	ErrSchemaParse      ErrorCode = "SCHEMA_PARSE"
	ErrSchemaInvalid    ErrorCode = "SCHEMA_INVALID"
	ErrInheritance      ErrorCode = "INHERITANCE"
	ErrInheritanceCycle ErrorCode = "INHERITANCE_CYCLE"

	// Content template errors
	ErrTemplateSyntax ErrorCode = "TEMPLATE_SYNTAX"
	ErrDepthExceeded  ErrorCode = "DEPTH_EXCEEDED"

	// Materialization errors
	ErrFolderCreate ErrorCode = "FOLDER_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"

	// Collaborator errors
	ErrURLInvalid ErrorCode = "URL_INVALID"
	ErrDownload   ErrorCode = "DOWNLOAD"
	ErrGenerate   ErrorCode = "GENERATE"
	ErrHookRun    ErrorCode = "HOOK_RUN"

	// Template store errors
	ErrStore            ErrorCode = "STORE"
	ErrTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrTemplateExists   ErrorCode = "TEMPLATE_EXISTS"
	ErrImport           ErrorCode = "IMPORT"
)

// SproutError represents a structured error with code and details
type SproutError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SproutError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SproutError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SproutError) Is(target error) bool {
	var targetErr *SproutError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SproutError with the given code and message
func New(code ErrorCode, message string) *SproutError {
	return &SproutError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SproutError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SproutError {
	return &SproutError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SproutError
func Wrap(err error, code ErrorCode, message string) *SproutError {
	if err == nil {
		return nil
	}
	return &SproutError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SproutError {
	if err == nil {
		return nil
	}
	return &SproutError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SproutError) WithDetail(key string, value interface{}) *SproutError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *SproutError) WithDetails(details map[string]interface{}) *SproutError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// UserMessage returns the human-readable text of err without the bracketed
// code prefix Error() adds, suitable for run log details. Non-sprout errors
// return their Error() text unchanged.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var sproutErr *SproutError
	if errors.As(err, &sproutErr) {
		if sproutErr.Wrapped != nil {
			return fmt.Sprintf("%s: %v", sproutErr.Message, sproutErr.Wrapped)
		}
		return sproutErr.Message
	}
	return err.Error()
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var sproutErr *SproutError
	if errors.As(err, &sproutErr) {
		return sproutErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SproutError
func GetErrorCode(err error) ErrorCode {
	var sproutErr *SproutError
	if errors.As(err, &sproutErr) {
		return sproutErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SproutError
func GetErrorDetails(err error) map[string]interface{} {
	var sproutErr *SproutError
	if errors.As(err, &sproutErr) {
		return sproutErr.Details
	}
	return nil
}
