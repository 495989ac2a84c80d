package middleware

import (
	"strings"

	"kirana/internal/models"
	"kirana/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// SessionKey is the fiber.Ctx Locals key holding the request's models.Session.
const SessionKey = "session"

// AuthRequired is a Fiber middleware that turns a bearer session token into a models.Session.
func AuthRequired(authService *services.AuthService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		sess, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("session token rejected")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(SessionKey, sess)
		return c.Next()
	}
}

// CurrentSession returns the session stored by AuthRequired. ok is false on routes without it.
func CurrentSession(c *fiber.Ctx) (models.Session, bool) {
	sess, ok := c.Locals(SessionKey).(models.Session)
	return sess, ok
}
