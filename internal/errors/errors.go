package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// IsCode reports whether err is an AppError carrying the given code
func IsCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeColumnNotFound      = "COLUMN_NOT_FOUND"
	CodeRowNotFound         = "ROW_NOT_FOUND"
	CodeAmbiguousSheet      = "AMBIGUOUS_SHEET"
	CodeNoLinkedResource    = "NO_LINKED_RESOURCE"
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodeResourceUnavailable = "RESOURCE_UNAVAILABLE"
	CodeWriteError          = "WRITE_ERROR"
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeDatabaseError       = "DATABASE_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeInvalidInput        = "INVALID_INPUT"
)

// Common error constructors

func ColumnNotFound(table, field string) *AppError {
	return New(CodeColumnNotFound, fmt.Sprintf("no column resolves for %s in %s", field, table))
}

func RowNotFound(resource, rowKey string) *AppError {
	return New(CodeRowNotFound, fmt.Sprintf("row %q not found in %s", rowKey, resource))
}

func AmbiguousSheet(resource string, sheets int) *AppError {
	return New(CodeAmbiguousSheet, fmt.Sprintf("no sheet in %s matches the target and %d exist", resource, sheets))
}

func NoLinkedResource(kind string) *AppError {
	return New(CodeNoLinkedResource, fmt.Sprintf("no %s resource is linked", kind))
}

func PermissionDenied(resource string) *AppError {
	return New(CodePermissionDenied, fmt.Sprintf("read-write permission denied on %s", resource))
}

func ResourceUnavailable(resource string, cause error) *AppError {
	return &AppError{
		Code:    CodeResourceUnavailable,
		Message: fmt.Sprintf("resource %s is unavailable", resource),
		Cause:   cause,
	}
}

func WriteError(resource string, cause error) *AppError {
	return &AppError{
		Code:    CodeWriteError,
		Message: fmt.Sprintf("failed to write resource %s", resource),
		Cause:   cause,
	}
}

func ConfigInvalid(message string) *AppError {
	return New(CodeInvalidConfig, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
