package apperrors

import "errors"

// Authentication errors
var (
	// ErrInvalidCredentials is returned for both an unknown identifier and a
	// wrong password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidRegistrationCode = errors.New("invalid teacher registration code")
)

// Registration errors
var (
	ErrStudentIDExists = errors.New("student ID already exists")
	ErrTeacherIDExists = errors.New("teacher ID already exists")
	ErrEmailExists     = errors.New("email already exists")
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrStudentNotFound  = errors.New("student not found")
	ErrTeacherNotFound  = errors.New("teacher not found")
)

// File upload errors
var (
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge       = errors.New("file exceeds maximum upload size")
	ErrUnsafeFilename     = errors.New("unsafe filename")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation failure with a user-visible message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}
