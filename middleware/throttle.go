package middleware

import (
	"fmt"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"

	"github.com/cliphive/clip_api/services"
	"github.com/cliphive/clip_api/shared"
	"github.com/cliphive/clip_api/throttle"
)

// ThrottleMiddleware attaches sliding-window budgets to routes. Each route
// declares its scope names; the inspector consumes one slot per configured
// scope before the business handler runs, and a blocked scope short-circuits
// the request into a 429 envelope.
type ThrottleMiddleware struct {
	context.DefaultService

	redisSvc  *services.RedisService
	inspector *throttle.Inspector
}

const THROTTLE_MIDDLEWARE_SVC = "throttle"

func (svc ThrottleMiddleware) Id() string {
	return THROTTLE_MIDDLEWARE_SVC
}

func (svc *ThrottleMiddleware) Configure(ctx *context.Context) error {
	svc.redisSvc = ctx.Service(services.REDIS_SVC).(*services.RedisService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *ThrottleMiddleware) Start() error {
	cfg := throttle.LoadConfig(throttle.RatesFromEnv())
	store := throttle.NewRedisStore(svc.redisSvc.GetClient())
	svc.inspector = throttle.NewInspector(cfg, store)
	return nil
}

// Inspector exposes the live inspector for diagnostics handlers.
func (svc *ThrottleMiddleware) Inspector() *throttle.Inspector {
	return svc.inspector
}

// Limit returns a handler that consumes the named scopes, in order.
func (svc *ThrottleMiddleware) Limit(scopes ...string) fiber.Handler {
	return ThrottleHandler(func() *throttle.Inspector { return svc.inspector }, scopes...)
}

// ThrottleHandler is the injectable form of Limit: tests swap in an
// inspector over a memory store.
func ThrottleHandler(inspector func() *throttle.Inspector, scopes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ins := inspector()
		if ins == nil {
			return c.Next()
		}

		id := callerIdentity(c)
		statuses, blocked := ins.Inspect(c.Context(), c.Method(), c.Route().Path, id, scopes)

		for name, value := range throttle.Headers(statuses) {
			c.Set(name, value)
		}
		c.Locals(shared.RateLimitStatus, statuses)

		for _, status := range statuses {
			services.RecordThrottleDecision(status.Type, status.Blocked)
		}

		if blocked != nil {
			c.Set("Retry-After", fmt.Sprintf("%d", blocked.RetryAfter))
			message := fmt.Sprintf("Request was throttled. Expected available in %d seconds.", blocked.RetryAfter)
			return shared.NewRateLimited(message, blocked.RetryAfter)
		}

		return c.Next()
	}
}

func callerIdentity(c *fiber.Ctx) throttle.Identity {
	if userID, ok := c.Locals(shared.UserID).(string); ok && userID != "" {
		return throttle.Identity{UserID: userID}
	}
	return throttle.AnonymousIdentity(c.Get(fiber.HeaderUserAgent), c.IP())
}
