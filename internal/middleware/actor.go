package middleware

import (
	"firm-crm/internal/features/audit"

	"github.com/gofiber/fiber/v2"
)

// ActorMiddleware copies the X-Actor-ID header into the request context so
// audit entries name the operator. Without it entries are attributed to "system".
func ActorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if actor := c.Get("X-Actor-ID"); actor != "" {
			c.SetUserContext(audit.WithActor(c.UserContext(), actor))
		}
		return c.Next()
	}
}
