package api

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/cliphive/clip_api/docs"
	"github.com/cliphive/clip_api/middleware"
	"github.com/cliphive/clip_api/services"
	"github.com/cliphive/clip_api/services/handlers"
	"github.com/cliphive/clip_api/shared"
)

// HttpService assembles the fiber application: request context, throttling,
// auth, route table and the error boundary that renders every failure into
// the standard envelope.
type HttpService struct {
	context.DefaultService

	authSvc   *services.AuthService
	jwtSvc    *services.JWTService
	userSvc   *services.UserService
	videoSvc  *services.VideoService
	socialSvc *services.SocialService

	throttleMw *middleware.ThrottleMiddleware
	authMw     *middleware.AuthMiddleware

	port  int
	debug bool
	app   *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}
	svc.debug = os.Getenv("APP_DEBUG") == "true"

	svc.authSvc = ctx.Service(services.AUTH_SVC).(*services.AuthService)
	svc.jwtSvc = ctx.Service(services.JWT_SVC).(*services.JWTService)
	svc.userSvc = ctx.Service(services.USER_SVC).(*services.UserService)
	svc.videoSvc = ctx.Service(services.VIDEO_SVC).(*services.VideoService)
	svc.socialSvc = ctx.Service(services.SOCIAL_SVC).(*services.SocialService)
	svc.throttleMw = ctx.Service(middleware.THROTTLE_MIDDLEWARE_SVC).(*middleware.ThrottleMiddleware)
	svc.authMw = ctx.Service(middleware.AUTH_MIDDLEWARE_SVC).(*middleware.AuthMiddleware)

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.app = fiber.New(fiber.Config{
		AppName:               "clip_api",
		DisableStartupMessage: true,
		JSONEncoder:           shared.JSONEncoder,
		JSONDecoder:           shared.JSONDecoder,
		ErrorHandler:          svc.handleError,
	})

	svc.app.Use(middleware.RequestContext())
	svc.app.Use(recover.New())
	svc.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	svc.app.Use(svc.instrument)

	svc.registerRoutes()

	log.WithField("port", svc.port).Info("HTTP service listening")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

func (svc *HttpService) registerRoutes() {
	authHandler := handlers.NewAuthHandler(svc.authSvc, svc.jwtSvc)
	userHandler := handlers.NewUserHandler(svc.userSvc)
	videoHandler := handlers.NewVideoHandler(svc.videoSvc)
	socialHandler := handlers.NewSocialHandler(svc.socialSvc)

	optional := svc.authMw.OptionalAuth()
	required := svc.authMw.RequiredAuth()

	svc.app.Get("/ping", svc.ping)
	svc.app.Get("/swagger/*", swagger.HandlerDefault)

	v1 := svc.app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	// Account lifecycle. The auth scope keeps credential guessing slow even
	// when the anon budget is generous.
	v1.Post("/register", svc.throttleMw.Limit("anon", "auth"), authHandler.Register)
	v1.Post("/login", svc.throttleMw.Limit("anon", "auth"), authHandler.Login)
	v1.Post("/refresh", svc.throttleMw.Limit("anon", "auth"), authHandler.RefreshToken)
	v1.Post("/auth/google", svc.throttleMw.Limit("anon", "auth"), authHandler.GoogleLogin)
	v1.Post("/verify-email", svc.throttleMw.Limit("anon", "auth"), authHandler.VerifyEmail)
	v1.Post("/logout", required, svc.throttleMw.Limit("user"), authHandler.Logout)

	// Public catalogue
	v1.Get("/videos", optional, svc.throttleMw.Limit("anon"), videoHandler.Feed)
	v1.Get("/videos/:videoId", optional, svc.throttleMw.Limit("anon"), videoHandler.Get)
	v1.Post("/videos/:videoId/view", optional, svc.throttleMw.Limit("anon"), videoHandler.View)
	v1.Get("/videos/:videoId/comments", optional, svc.throttleMw.Limit("anon"), socialHandler.ListComments)
	v1.Get("/users/:userId", optional, svc.throttleMw.Limit("anon"), userHandler.GetProfile)

	// Creator surface
	v1.Post("/videos", required, svc.throttleMw.Limit("user", "upload"), videoHandler.Create)
	v1.Post("/videos/:videoId/publish", required, svc.throttleMw.Limit("user"), videoHandler.Publish)
	v1.Delete("/videos/:videoId", required, svc.throttleMw.Limit("user"), videoHandler.Delete)

	// Social graph
	v1.Post("/users/:userId/follow", required, svc.throttleMw.Limit("user"), socialHandler.Follow)
	v1.Delete("/users/:userId/follow", required, svc.throttleMw.Limit("user"), socialHandler.Unfollow)
	v1.Post("/videos/:videoId/like", required, svc.throttleMw.Limit("user"), socialHandler.Like)
	v1.Delete("/videos/:videoId/like", required, svc.throttleMw.Limit("user"), socialHandler.Unlike)
	v1.Post("/videos/:videoId/comments", required, svc.throttleMw.Limit("user", "comment"), socialHandler.AddComment)
	v1.Delete("/comments/:commentId", required, svc.throttleMw.Limit("user"), socialHandler.DeleteComment)
	v1.Post("/videos/:videoId/report", required, svc.throttleMw.Limit("user", "report"), socialHandler.Report)

	// Profile
	v1.Get("/me", required, svc.throttleMw.Limit("user"), userHandler.Me)
	v1.Patch("/me", required, svc.throttleMw.Limit("user"), userHandler.UpdateProfile)

	v1.Get("/throttle/stats", required, svc.throttleStats)

	svc.app.Use(func(c *fiber.Ctx) error {
		return shared.NewNotFound("Page not found")
	})
}

// instrument records prometheus counters for every request, including ones
// resolved by the error boundary.
func (svc *HttpService) instrument(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok {
			status = appErr.StatusCode
		} else {
			status = http.StatusInternalServerError
		}
	}
	services.RecordHTTPRequest(c.Route().Path, c.Method(), status, time.Since(start))

	return err
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	appErr := shared.TranslateError(err, svc.debug)
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("Request failed")
	}
	return shared.ResponseAppError(c, appErr)
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

// @Summary Throttle configuration
// @Description Returns the active throttle scopes and their rates
// @Tags throttle
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=map[string]string}
// @Router /api/v1/throttle/stats [get]
func (svc *HttpService) throttleStats(c *fiber.Ctx) error {
	ins := svc.throttleMw.Inspector()
	if ins == nil {
		return shared.ResponseOK(c, map[string]string{})
	}
	return shared.ResponseOK(c, ins.Config().Rates())
}
