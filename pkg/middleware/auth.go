package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"accounts/pkg/logger"
	"accounts/pkg/token"
)

// NewAuth returns a middleware that verifies the bearer token and puts
// the authenticated subject into request locals. Expired, malformed,
// and bad-signature tokens all get the same generic 401 body; the
// distinction only reaches the logs.
func NewAuth(tokens *token.JWT, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is missing"})
		}

		claims, err := tokens.Verify(auth[len("Bearer "):])
		if err != nil {
			log.Debug("token rejected", "path", c.Path(), "reason", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid or expired token"})
		}

		c.Locals("username", claims.Subject)
		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}
