package errors

import (
	"errors"
	"fmt"
)

// Common application errors
var (
	// Input errors
	ErrNoInput          = errors.New("no input data provided")
	ErrInvalidRows      = errors.New("rows must be a list of records")
	ErrInvalidHeaders   = errors.New("headers must be a list of column names")
	ErrMalformedSchema  = errors.New("malformed schema definition")
	ErrUnknownColumn    = errors.New("unknown column referenced")

	// Parsing errors (surfaced from the ingest boundary)
	ErrParseFailed      = errors.New("failed to parse input data")
	ErrNormalizeDepth   = errors.New("input nesting exceeds normalization depth")
	ErrUnsupportedInput = errors.New("unsupported input format")

	// Storage errors
	ErrStorageNotFound         = errors.New("history backend not found")
	ErrStorageConnectionFailed = errors.New("history store connection failed")
	ErrStorageWriteFailed      = errors.New("history store write failed")
	ErrStorageReadFailed       = errors.New("history store read failed")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrConfigurationLoad    = errors.New("failed to load configuration")

	// Resource errors
	ErrRowLimitExceeded = errors.New("row limit exceeded")

	// Internal errors
	ErrInternal = errors.New("internal error")
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeInput         ErrorType = "input"
	ErrorTypeParsing       ErrorType = "parsing"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeStorage       ErrorType = "storage"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeMemory        ErrorType = "memory"
	ErrorTypeInternal      ErrorType = "internal"
)

// AppError represents an application-specific error with additional context
type AppError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with application context
func WrapError(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// NewInputError creates an input error
func NewInputError(code, message string) *AppError {
	return NewAppError(ErrorTypeInput, code, message)
}

// NewParsingError creates a parsing error
func NewParsingError(code, message string) *AppError {
	return NewAppError(ErrorTypeParsing, code, message)
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *AppError {
	return NewAppError(ErrorTypeValidation, code, message)
}

// NewStorageError creates a storage error
func NewStorageError(code, message string) *AppError {
	return NewAppError(ErrorTypeStorage, code, message)
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(code, message string) *AppError {
	return NewAppError(ErrorTypeConfiguration, code, message)
}

// NewInternalError creates an internal error
func NewInternalError(code, message string) *AppError {
	return NewAppError(ErrorTypeInternal, code, message)
}

// IsRetryable reports whether the error is worth retrying, which for this
// engine means transient storage failures only.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeStorage
	}
	return false
}
