package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliphive/clip_api/dto"
	"github.com/cliphive/clip_api/shared"
)

type stubAuthService struct {
	registered *dto.RegisterRequest
	loginErr   error
}

func (s *stubAuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	s.registered = &req
	return &dto.RegisterResponse{UserID: "u1", Username: req.Username, Email: req.Email}, nil
}

func (s *stubAuthService) Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &dto.LoginResponse{UserID: "u1", Username: "creator1", AccessToken: "at", RefreshToken: "rt"}, nil
}

func (s *stubAuthService) RefreshToken(req dto.RefreshTokenRequest, clientIP, userAgent string) (*dto.LoginResponse, error) {
	return &dto.LoginResponse{UserID: "u1", AccessToken: "at2", RefreshToken: "rt2"}, nil
}

func (s *stubAuthService) Logout(userID, sessionID, accessToken string) error { return nil }

func (s *stubAuthService) GoogleLogin(req dto.GoogleAuthRequest, clientIP, userAgent string) (*dto.LoginResponse, error) {
	return &dto.LoginResponse{UserID: "u1"}, nil
}

func (s *stubAuthService) VerifyEmail(email, code string) error { return nil }

type stubJWTService struct{}

func (stubJWTService) ExtractTokenFromHeader(authHeader string) (string, error) {
	return strings.TrimPrefix(authHeader, "Bearer "), nil
}

func newAuthTestApp(stub *stubAuthService) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder: shared.JSONEncoder,
		JSONDecoder: shared.JSONDecoder,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return shared.ResponseAppError(c, shared.TranslateError(err, false))
		},
	})

	h := NewAuthHandler(stub, stubJWTService{})
	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, payload string) (*http.Response, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(raw, &body))
	return resp, body
}

func TestAuthHandler_Register(t *testing.T) {
	stub := &stubAuthService{}
	app := newAuthTestApp(stub)

	resp, body := postJSON(t, app, "/api/v1/register",
		`{"username":"creator1","email":"creator@example.com","password":"Str0ng!Pass"}`)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, shared.StatusSucceeded, body["status"])

	require.NotNil(t, stub.registered)
	assert.Equal(t, "creator1", stub.registered.Username)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "u1", data["user_id"])
}

func TestAuthHandler_RegisterValidationFailure(t *testing.T) {
	app := newAuthTestApp(&stubAuthService{})

	resp, body := postJSON(t, app, "/api/v1/register",
		`{"username":"creator1","email":"not-an-email","password":"weak"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, shared.StatusFailed, body["status"])

	errs := body["errors"].([]interface{})
	require.NotEmpty(t, errs)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		record := e.(map[string]interface{})
		assert.Equal(t, shared.CodeValidationError, record["code"])
		fields = append(fields, record["field"].(string))
	}
	assert.Contains(t, fields, "Email")
	assert.Contains(t, fields, "Password")
}

func TestAuthHandler_MalformedBodyIsClientError(t *testing.T) {
	app := newAuthTestApp(&stubAuthService{})

	resp, body := postJSON(t, app, "/api/v1/register", `{"username": "creator1",`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, shared.StatusFailed, body["status"])

	errs := body["errors"].([]interface{})
	require.Len(t, errs, 1)
	record := errs[0].(map[string]interface{})
	assert.Equal(t, shared.CodeValidationError, record["code"])
	assert.Equal(t, "none", record["field"])
	assert.Equal(t, "Malformed request body", record["message"])
}

func TestAuthHandler_LoginFailure(t *testing.T) {
	stub := &stubAuthService{loginErr: shared.NewAuthenticationFailed("")}
	app := newAuthTestApp(stub)

	resp, body := postJSON(t, app, "/api/v1/login",
		`{"email_or_username":"creator1","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	errs := body["errors"].([]interface{})
	require.Len(t, errs, 1)
	record := errs[0].(map[string]interface{})
	assert.Equal(t, shared.CodeAuthenticationFailed, record["code"])
}
