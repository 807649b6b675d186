package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateError_CodeStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		code       string
	}{
		{"not authenticated", NewNotAuthenticated(), http.StatusUnauthorized, CodeNotAuthenticated},
		{"authentication failed", NewAuthenticationFailed(""), http.StatusUnauthorized, CodeAuthenticationFailed},
		{"permission denied", NewPermissionDenied(""), http.StatusForbidden, CodePermissionDenied},
		{"not found", NewNotFound(""), http.StatusNotFound, CodeNotFound},
		{"method not allowed", NewMethodNotAllowed(), http.StatusMethodNotAllowed, CodeMethodNotAllowed},
		{"rate limited", NewRateLimited("", 30), http.StatusTooManyRequests, CodeRateLimitExceeded},
		{"validation", NewValidationError(nil), http.StatusBadRequest, CodeValidationError},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, CodeNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, http.StatusBadRequest, CodeValidationError},
		{"fiber 404", fiber.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"fiber 405", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, CodeMethodNotAllowed},
		{"fiber 401", fiber.ErrUnauthorized, http.StatusUnauthorized, CodeNotAuthenticated},
		{"fiber 403", fiber.ErrForbidden, http.StatusForbidden, CodePermissionDenied},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := TranslateError(tt.err, false)
			assert.Equal(t, tt.statusCode, appErr.StatusCode)
			assert.Equal(t, tt.code, appErr.Code)
			require.NotEmpty(t, appErr.Records)
		})
	}
}

func TestTranslateError_Deterministic(t *testing.T) {
	first := TranslateError(gorm.ErrRecordNotFound, false)
	second := TranslateError(gorm.ErrRecordNotFound, false)

	assert.Equal(t, first.StatusCode, second.StatusCode)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Message, second.Message)
}

func TestTranslateError_NotFoundDefaultMessage(t *testing.T) {
	appErr := TranslateError(gorm.ErrRecordNotFound, false)
	assert.Equal(t, "The requested resource was not found", appErr.Message)
	assert.Equal(t, "none", appErr.Records[0].Field)
}

func TestTranslateError_InternalSanitizedByDefault(t *testing.T) {
	appErr := TranslateError(errors.New("pq: connection refused"), false)

	assert.Equal(t, "An unexpected error occurred", appErr.Message)
	assert.NotContains(t, appErr.Records[0].Message, "pq:")
}

func TestTranslateError_InternalDebugKeepsRawMessage(t *testing.T) {
	appErr := TranslateError(errors.New("pq: connection refused"), true)

	assert.Equal(t, "pq: connection refused", appErr.Message)
	assert.Equal(t, "pq: connection refused", appErr.Records[0].Message)
}

func TestTranslateError_WrappedAppErrorSurvives(t *testing.T) {
	wrapped := fmt.Errorf("while deleting: %w", NewPermissionDenied("You can only delete your own comments"))

	appErr := TranslateError(wrapped, false)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
	assert.Equal(t, "You can only delete your own comments", appErr.Message)
}

func TestTranslateError_DuplicatedKeyIsClientError(t *testing.T) {
	appErr := TranslateError(fmt.Errorf("creating user: %w", gorm.ErrDuplicatedKey), false)

	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, CodeValidationError, appErr.Code)
	require.Len(t, appErr.Records, 1)
	assert.Equal(t, "A record with these details already exists", appErr.Records[0].Message)
}

func TestNewRateLimited_RetryAfterDetails(t *testing.T) {
	appErr := NewRateLimited("Request was throttled. Expected available in 57 seconds.", 57)

	require.Len(t, appErr.Records, 1)
	record := appErr.Records[0]
	assert.Equal(t, "none", record.Field)
	assert.Equal(t, CodeRateLimitExceeded, record.Code)
	assert.Equal(t, map[string]string{"retry_after": "57 seconds"}, record.Details)
}

func TestNewValidationError_EmptyRecordsGetPlaceholder(t *testing.T) {
	appErr := NewValidationError(nil)

	require.Len(t, appErr.Records, 1)
	assert.Equal(t, "none", appErr.Records[0].Field)
	assert.Equal(t, CodeValidationError, appErr.Records[0].Code)
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	appErr := NewInternalError(cause)

	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "disk full")
}
