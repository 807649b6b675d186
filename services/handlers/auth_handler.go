package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cliphive/clip_api/dto"
	"github.com/cliphive/clip_api/shared"
)

type AuthHandler struct {
	authSvc AuthServiceInterface
	jwtSvc  JWTServiceInterface
}

func NewAuthHandler(authSvc AuthServiceInterface, jwtSvc JWTServiceInterface) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		jwtSvc:  jwtSvc,
	}
}

// @Summary Register a new user
// @Description Create a new user account with email verification
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body dto.RegisterRequest true "Registration details"
// @Success 201 {object} shared.Response{data=dto.RegisterResponse}
// @Router /api/v1/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := h.authSvc.Register(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "User registered successfully", resp)
}

// @Summary Login user
// @Description Authenticate user and return an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body dto.LoginRequest true "Login credentials"
// @Success 200 {object} shared.Response{data=dto.LoginResponse}
// @Router /api/v1/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := h.authSvc.Login(req, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Login successful", resp)
}

// @Summary Refresh access token
// @Description Generate a new token pair using a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param refreshRequest body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} shared.Response{data=dto.LoginResponse}
// @Router /api/v1/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := h.authSvc.RefreshToken(req, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Token refreshed successfully", resp)
}

// @Summary Login with Google
// @Description Exchange a Google OAuth authorization code for a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param googleRequest body dto.GoogleAuthRequest true "Authorization code"
// @Success 200 {object} shared.Response{data=dto.LoginResponse}
// @Router /api/v1/auth/google [post]
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	var req dto.GoogleAuthRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := h.authSvc.GoogleLogin(req, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Login successful", resp)
}

// @Summary Verify email
// @Description Confirm an email address with the emailed code
// @Tags auth
// @Accept json
// @Produce json
// @Param verifyRequest body dto.VerifyEmailRequest true "Email and code"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	if err := h.authSvc.VerifyEmail(req.Email, req.Code); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Email verified successfully", nil)
}

// @Summary Logout user
// @Description Invalidate the current session and access token
// @Tags auth
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	sessionID, _ := c.Locals(shared.SessionID).(string)

	accessToken, _ := h.jwtSvc.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))

	if err := h.authSvc.Logout(userID, sessionID, accessToken); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Logged out successfully", nil)
}
