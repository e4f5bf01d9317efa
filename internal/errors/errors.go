package errors

import (
	"errors"
	"fmt"
)

// ErrorType categorizes conversion failures
type ErrorType string

const (
	ErrorTypeIO                    ErrorType = "io"
	ErrorTypeParse                 ErrorType = "parse"
	ErrorTypeEmptySource           ErrorType = "empty_source"
	ErrorTypeUnsupportedShape      ErrorType = "unsupported_shape"
	ErrorTypeUnsupportedConversion ErrorType = "unsupported_conversion"
	ErrorTypeInternal              ErrorType = "internal"
)

// Sentinels for errors.Is; matching is by type only.
var (
	ErrIO                    = &AppError{Type: ErrorTypeIO}
	ErrParse                 = &AppError{Type: ErrorTypeParse}
	ErrEmptySource           = &AppError{Type: ErrorTypeEmptySource}
	ErrUnsupportedShape      = &AppError{Type: ErrorTypeUnsupportedShape}
	ErrUnsupportedConversion = &AppError{Type: ErrorTypeUnsupportedConversion}
	ErrInternal              = &AppError{Type: ErrorTypeInternal}
)

// AppError is a conversion error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewIOError creates an error for a missing, unreadable or unwritable file
func NewIOError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeIO, Message: message, Err: err}
}

// NewParseError creates an error for malformed source syntax
func NewParseError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeParse, Message: message, Err: err}
}

// NewEmptySourceError creates an error for a table source without rows
func NewEmptySourceError(message string) *AppError {
	return &AppError{Type: ErrorTypeEmptySource, Message: message}
}

// NewUnsupportedShapeError creates an error for a document the target format cannot hold
func NewUnsupportedShapeError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnsupportedShape, Message: message}
}

// NewUnsupportedConversionError creates an error for a format pair without a converter
func NewUnsupportedConversionError(from, to string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnsupportedConversion,
		Message: fmt.Sprintf("Conversion from %s to %s is not supported.", from, to),
	}
}

// NewInternalError flags a broken invariant inside the converter
func NewInternalError(message string) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message}
}

// TypeOf returns the type of the first AppError in the chain
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		detail := appErr.Message
		if appErr.Err != nil {
			detail = fmt.Sprintf("%s (%v)", appErr.Message, appErr.Err)
		}
		switch appErr.Type {
		case ErrorTypeIO:
			return fmt.Sprintf("File error: %s", detail)
		case ErrorTypeParse:
			return fmt.Sprintf("Parse error: %s", detail)
		case ErrorTypeEmptySource:
			return fmt.Sprintf("Empty input: %s", detail)
		case ErrorTypeUnsupportedShape:
			return fmt.Sprintf("Unsupported document shape: %s", detail)
		case ErrorTypeUnsupportedConversion:
			return appErr.Message
		default:
			return fmt.Sprintf("Error: %s", detail)
		}
	}

	return fmt.Sprintf("Error: %v", err)
}
