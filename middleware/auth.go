package middleware

import (
	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"

	"github.com/cliphive/clip_api/services"
	"github.com/cliphive/clip_api/shared"
)

type AuthMiddleware struct {
	context.DefaultService

	jwtSvc  *services.JWTService
	authSvc *services.AuthService
}

const AUTH_MIDDLEWARE_SVC = "auth"

func (svc AuthMiddleware) Id() string {
	return AUTH_MIDDLEWARE_SVC
}

func (svc *AuthMiddleware) Configure(ctx *context.Context) error {
	svc.jwtSvc = ctx.Service(services.JWT_SVC).(*services.JWTService)
	svc.authSvc = ctx.Service(services.AUTH_SVC).(*services.AuthService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthMiddleware) Start() error {
	return nil
}

// RequiredAuth rejects requests without a valid bearer token.
func (svc *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return shared.NewNotAuthenticated()
		}

		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.NewAuthenticationFailed(err.Error())
		}

		userID, sessionID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.NewAuthenticationFailed("Invalid JWT token")
		}
		if userID == "" {
			return shared.NewAuthenticationFailed("Invalid user ID in token")
		}

		if svc.authSvc.IsTokenDenied(c.Context(), token) {
			return shared.NewAuthenticationFailed("Token has been revoked")
		}

		c.Locals(shared.UserID, userID)
		c.Locals(shared.SessionID, sessionID)
		return c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a token is present but
// lets anonymous requests through. Feed and playback endpoints use this so
// throttling can key on the user when there is one.
func (svc *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return c.Next()
		}

		userID, sessionID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil || userID == "" || svc.authSvc.IsTokenDenied(c.Context(), token) {
			return c.Next()
		}

		c.Locals(shared.UserID, userID)
		c.Locals(shared.SessionID, sessionID)
		return c.Next()
	}
}
