package errors

import (
	"fmt"
)

// ErrorCode classifies a failure crossing the store boundary.
type ErrorCode string

const (
	// ErrCodeValidation indicates a malformed field value at the model boundary.
	ErrCodeValidation ErrorCode = "VALIDATION_FAILED"
	// ErrCodeNotFound indicates a referenced entity is absent.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidArgument indicates malformed request parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodePersistence indicates a store-level failure: constraint
	// violation, connection loss, or commit failure.
	ErrCodePersistence ErrorCode = "PERSISTENCE_FAILED"
)

// StoreError represents a structured error for store operations.
type StoreError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *StoreError) WithContext(key string, value interface{}) *StoreError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *StoreError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// Validation creates a validation error.
func Validation(msg string) *StoreError {
	return &StoreError{Code: ErrCodeValidation, Message: msg}
}

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...interface{}) *StoreError {
	return &StoreError{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error carrying the entity kind and id.
func NotFound(kind string, id int32) *StoreError {
	e := &StoreError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %d", kind, id),
	}
	return e.WithContext("kind", kind).WithContext("id", id)
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *StoreError {
	return &StoreError{Code: ErrCodeInvalidArgument, Message: msg}
}

// Persistence creates a persistence error wrapping a store-level cause.
func Persistence(op string, cause error) *StoreError {
	e := &StoreError{Code: ErrCodePersistence, Message: op, Cause: cause}
	return e.WithContext("operation", op)
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *StoreError {
	return &StoreError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if storeErr, ok := err.(*StoreError); ok {
		return storeErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a StoreError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if storeErr, ok := err.(*StoreError); ok {
		return storeErr.Code
	}
	return defaultCode
}
