package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware guards admin endpoints with the static bearer credential.
func AdminMiddleware(adminToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		if parts[1] != adminToken {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		return c.Next()
	}
}
