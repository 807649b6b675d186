package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/cliphive/clip_api/api"
	"github.com/cliphive/clip_api/middleware"
	"github.com/cliphive/clip_api/services"
)

// @title ClipHive API
// @version 1.0
// @description Short-video sharing platform API

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.SqlService{},
		&services.RedisService{},
		&services.JWTService{},
		&services.EmailService{},
		&services.MediaService{},

		&services.AuthService{},
		&services.UserService{},
		&services.VideoService{},
		&services.SocialService{},

		&middleware.AuthMiddleware{},
		&middleware.ThrottleMiddleware{},

		&services.MonitoringService{},
		&api.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	if err := ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("Service runtime failed")
		return
	}
}
