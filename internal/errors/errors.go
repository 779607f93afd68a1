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
		Code:    CodeInternal,
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

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	// CodeConfigInvalid marks configuration errors: unknown columns,
	// split ratios outside (0,1), unrecognized rule names. Fatal,
	// surfaced before any data is touched.
	CodeConfigInvalid = "CONFIG_INVALID"

	// CodeInternal marks internal-consistency failures, e.g. the
	// compiler receiving a rule ID no registered rule produces.
	CodeInternal = "INTERNAL_ERROR"

	// CodeDatabase marks persistence-layer failures.
	CodeDatabase = "DATABASE_ERROR"

	// CodeExternalService marks failures in external collaborators
	// (loaders, HTTP clients).
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"

	// CodeInvalidInput marks malformed caller-provided payloads.
	CodeInvalidInput = "INVALID_INPUT"

	// CodeNotFound marks lookups of records that do not exist.
	CodeNotFound = "NOT_FOUND"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ConfigInvalidf(format string, args ...interface{}) *AppError {
	return New(CodeConfigInvalid, fmt.Sprintf(format, args...))
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Internalf(format string, args ...interface{}) *AppError {
	return New(CodeInternal, fmt.Sprintf(format, args...))
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabase, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InvalidInputf(format string, args ...interface{}) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf(format, args...))
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}
