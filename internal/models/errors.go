package models

import "fmt"

// Error codes surfaced by the schema and service layers.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeUniqueViolation = "UNIQUE_VIOLATION"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError is the typed failure every layer below the HTTP boundary returns.
// Fields carries per-field validation messages for form redisplay.
type AppError struct {
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports an unresolvable entity reference.
func NewNotFoundError(resource string, key interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, key),
	}
}

// NewValidationError reports a single rejected input without field detail.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldValidationError reports rejected form input with per-field messages.
func NewFieldValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "invalid input",
		Fields:  fields,
	}
}

// NewUnauthorizedError reports a caller without a usable identity.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewForbiddenError reports an authenticated caller acting outside their
// ownership. The edit flow maps this to a redirect, not an error page.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewUniqueViolationError reports a duplicate value on a unique column.
func NewUniqueViolationError(resource, field string) *AppError {
	return &AppError{
		Code:    CodeUniqueViolation,
		Message: fmt.Sprintf("%s with this %s already exists", resource, field),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "internal server error",
		Err:     err,
	}
}
