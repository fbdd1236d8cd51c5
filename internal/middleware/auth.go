package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/dentline/internal/config"
	"github.com/example/dentline/internal/utils"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "auth-token"

const phoneContextKey = "currentPhoneNumber"

// AuthMiddleware validates the session token and loads the authenticated
// phone number into the request context. The token is read from the session
// cookie, or from a Bearer Authorization header for non-browser clients.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)

		if token == "" {
			authHeader := c.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}

		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		phoneNumber, err := utils.ParseSessionToken(cfg.JWTSecret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		c.Locals(phoneContextKey, phoneNumber)
		return c.Next()
	}
}

// GetCurrentPhone extracts the authenticated phone number from context.
func GetCurrentPhone(c *fiber.Ctx) (string, bool) {
	value := c.Locals(phoneContextKey)
	if value == nil {
		return "", false
	}

	if phoneNumber, ok := value.(string); ok && phoneNumber != "" {
		return phoneNumber, true
	}

	return "", false
}
