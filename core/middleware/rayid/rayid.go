package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// New creates a middleware that assigns a unique ray ID to every request.
// The ID is stored in locals under "ray_id" for log correlation and echoed
// back in the X-Ray-ID response header. An incoming X-Ray-ID is honored so
// upstream proxies can thread their own IDs through.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get("X-Ray-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set("X-Ray-ID", rid)
		return c.Next()
	}
}
