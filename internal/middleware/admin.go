package middleware

import (
	"crypto/subtle"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// AdminToken guards operator endpoints such as /metrics with the
// X-Admin-Token header. An empty token leaves the endpoint open.
func AdminToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}
		got := c.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1 {
			return c.Next()
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
}
