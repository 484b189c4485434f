package server

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	tokenx "github.com/tidyhive/success-coach/pkg/token"
)

// AuthRequired validates the session bearer token and stores the actor
// identity in request locals. The actor ID always comes from the session,
// never from the request body.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization header format",
			})
		}

		claims, err := tokenx.Validate(parts[1], secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		actorID, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil || actorID <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals("actor_id", actorID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}
