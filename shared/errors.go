package shared

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Stable machine-readable error codes. API clients branch on these, so the
// mapping to HTTP status codes never changes.
const (
	CodeValidationError      = "validation_error"
	CodeNotAuthenticated     = "not_authenticated"
	CodeAuthenticationFailed = "authentication_failed"
	CodePermissionDenied     = "permission_denied"
	CodeNotFound             = "not_found"
	CodeMethodNotAllowed     = "method_not_allowed"
	CodeRateLimitExceeded    = "rate_limit_exceeded"
	CodeInternalError        = "internal_error"
)

// ErrorRecord is one structured error entry in the envelope. Field is "none"
// for errors not tied to a specific input field.
type ErrorRecord struct {
	Field   string      `json:"field"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// AppError is the typed error raised by services and caught exactly once at
// the HTTP boundary.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Records    []ErrorRecord
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func newAppError(statusCode int, code, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Records: []ErrorRecord{{
			Field:   "none",
			Code:    code,
			Message: message,
		}},
	}
}

func NewNotAuthenticated() *AppError {
	return newAppError(http.StatusUnauthorized, CodeNotAuthenticated, "Authentication credentials were not provided")
}

func NewAuthenticationFailed(message string) *AppError {
	if message == "" {
		message = "Invalid authentication credentials"
	}
	return newAppError(http.StatusUnauthorized, CodeAuthenticationFailed, message)
}

func NewPermissionDenied(message string) *AppError {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	return newAppError(http.StatusForbidden, CodePermissionDenied, message)
}

func NewNotFound(message string) *AppError {
	if message == "" {
		message = "The requested resource was not found"
	}
	return newAppError(http.StatusNotFound, CodeNotFound, message)
}

func NewMethodNotAllowed() *AppError {
	return newAppError(http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed on this endpoint")
}

// NewRateLimited carries the first blocked policy's retry hint in the error
// details so clients can back off precisely.
func NewRateLimited(message string, retryAfter int64) *AppError {
	if message == "" {
		message = "Request was throttled"
	}
	appErr := newAppError(http.StatusTooManyRequests, CodeRateLimitExceeded, message)
	appErr.Records[0].Details = map[string]string{
		"retry_after": fmt.Sprintf("%d seconds", retryAfter),
	}
	return appErr
}

// NewValidationError wraps field-level records produced by the validator.
func NewValidationError(records []ErrorRecord) *AppError {
	appErr := &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidationError,
		Message:    "Input validation failed",
		Records:    records,
	}
	if len(appErr.Records) == 0 {
		appErr.Records = []ErrorRecord{{
			Field:   "none",
			Code:    CodeValidationError,
			Message: appErr.Message,
		}}
	}
	return appErr
}

func NewInternalError(cause error) *AppError {
	appErr := newAppError(http.StatusInternalServerError, CodeInternalError, "An unexpected error occurred")
	appErr.cause = cause
	return appErr
}

// GetAppError unwraps err to its AppError if it carries one.
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// TranslateError maps any error escaping a handler to the envelope's error
// shape. Unrecognized errors collapse to internal_error; in debug mode the
// raw message is kept for diagnosis, in production it is sanitized.
func TranslateError(err error, debug bool) *AppError {
	if appErr, ok := GetAppError(err); ok {
		return appErr
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return NewValidationError(FormatValidationErrors(validationErrs))
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFound("")
	}

	// Unique-index violations happen when two requests race past an
	// application-level duplicate check. Still a client-input problem.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewValidationError([]ErrorRecord{{
			Field:   "none",
			Code:    CodeValidationError,
			Message: "A record with these details already exists",
		}})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case http.StatusNotFound:
			return NewNotFound("")
		case http.StatusMethodNotAllowed:
			return NewMethodNotAllowed()
		case http.StatusUnauthorized:
			return NewNotAuthenticated()
		case http.StatusForbidden:
			return NewPermissionDenied("")
		case http.StatusBadRequest:
			return NewValidationError([]ErrorRecord{{
				Field:   "none",
				Code:    CodeValidationError,
				Message: fiberErr.Message,
			}})
		}
	}

	appErr := NewInternalError(err)
	if debug {
		appErr.Message = err.Error()
		appErr.Records[0].Message = err.Error()
	}
	return appErr
}

// FormatValidationErrors turns validator tag failures into per-field records.
func FormatValidationErrors(validationErrs validator.ValidationErrors) []ErrorRecord {
	records := make([]ErrorRecord, 0, len(validationErrs))

	for _, fieldErr := range validationErrs {
		var message string

		switch fieldErr.Tag() {
		case "required":
			message = fieldErr.Field() + " is required"
		case "email":
			message = "Invalid email format"
		case "min":
			message = fieldErr.Field() + " must be at least " + fieldErr.Param() + " characters"
		case "max":
			message = fieldErr.Field() + " must be at most " + fieldErr.Param() + " characters"
		case "len":
			message = fieldErr.Field() + " must be exactly " + fieldErr.Param() + " characters"
		case "alphanum":
			message = fieldErr.Field() + " must contain only letters and numbers"
		case "strong_password":
			message = "Password must contain at least 8 characters with uppercase, lowercase, number, and special character"
		case "url":
			message = fieldErr.Field() + " must be a valid URL"
		case "oneof":
			message = fieldErr.Field() + " must be one of: " + fieldErr.Param()
		default:
			message = fieldErr.Field() + " is invalid"
		}

		records = append(records, ErrorRecord{
			Field:   fieldErr.Field(),
			Code:    CodeValidationError,
			Message: message,
		})
	}

	return records
}
