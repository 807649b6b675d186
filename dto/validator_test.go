package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Valid(t *testing.T) {
	req := RegisterRequest{
		Username: "creator1",
		Email:    "creator@example.com",
		Password: "Str0ng!Pass",
	}
	assert.NoError(t, req.Validate())
}

func TestRegisterRequest_WeakPasswords(t *testing.T) {
	for _, password := range []string{
		"alllowercase1!",
		"ALLUPPERCASE1!",
		"NoNumbers!",
		"NoSpecial1A",
		"Ab1!",
	} {
		req := RegisterRequest{
			Username: "creator1",
			Email:    "creator@example.com",
			Password: password,
		}
		assert.Error(t, req.Validate(), password)
	}
}

func TestRegisterRequest_MinimumLengthPassword(t *testing.T) {
	req := RegisterRequest{
		Username: "creator1",
		Email:    "creator@example.com",
		Password: "Abc123!x",
	}
	assert.NoError(t, req.Validate())
}

func TestRegisterRequest_FieldErrors(t *testing.T) {
	req := RegisterRequest{Username: "x", Email: "not-an-email", Password: "weak"}

	err := req.Validate()
	require.Error(t, err)

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Len(t, validationErrs, 3)
}

func TestLoginRequest_RequiresBothFields(t *testing.T) {
	assert.Error(t, LoginRequest{}.Validate())
	assert.Error(t, LoginRequest{EmailOrUsername: "creator1"}.Validate())
	assert.NoError(t, LoginRequest{EmailOrUsername: "creator1", Password: "pw"}.Validate())
}

func TestVerifyEmailRequest_CodeLength(t *testing.T) {
	assert.Error(t, VerifyEmailRequest{Email: "a@b.co", Code: "12345"}.Validate())
	assert.NoError(t, VerifyEmailRequest{Email: "a@b.co", Code: "123456"}.Validate())
}

func TestReportRequest_ReasonOneOf(t *testing.T) {
	for _, reason := range []string{"spam", "abuse", "nudity", "violence", "other"} {
		assert.NoError(t, ReportRequest{Reason: reason}.Validate(), reason)
	}
	assert.Error(t, ReportRequest{Reason: "boring"}.Validate())
}

func TestCreateVideoRequest(t *testing.T) {
	assert.Error(t, CreateVideoRequest{}.Validate())
	assert.NoError(t, CreateVideoRequest{Title: "My first clip"}.Validate())
}
