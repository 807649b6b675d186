package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cliphive/clip_api/shared"
)

// RequestContext tags every request with a fresh id and its start time so
// the envelope can report X-Request-ID and X-Response-Time. Must be the
// first handler in the chain.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(shared.RequestID, uuid.NewString())
		c.Locals(shared.RequestStart, time.Now())
		return c.Next()
	}
}
