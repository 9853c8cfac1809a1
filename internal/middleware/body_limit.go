package middleware

import (
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// BodyLimit rejects request bodies above max bytes. The app-wide Fiber limit
// is sized for multipart uploads; JSON routes use this tighter bound.
func BodyLimit(max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Request().Header.ContentLength() > max || len(c.Body()) > max {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
				Error: true, Message: "Request body too large",
			})
		}
		return c.Next()
	}
}
