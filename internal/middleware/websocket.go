package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade ensures that requests to WebSocket endpoints are valid WebSocket connection attempts.
// Every route parameter in params must be present, and EnsurePlayerID must have run before it.
func WebSocketUpgrade(params ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		for _, p := range params {
			if c.Params(p) == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": p + " is required",
				})
			}
		}

		if PlayerID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		return c.Next()
	}
}
