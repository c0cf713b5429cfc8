package middleware

import (
	"quizpractice/backend/config"
	"quizpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const ownerIDKey = "owner_id"

// AuthMiddleware resolves the bearer token to an owner id and stores it for
// the handlers. Requests without a valid token get 401.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := utils.ExtractOwnerIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals(ownerIDKey, ownerID)
		return c.Next()
	}
}

// OwnerID returns the owner id set by AuthMiddleware, or "".
func OwnerID(c *fiber.Ctx) string {
	ownerID, _ := c.Locals(ownerIDKey).(string)
	return ownerID
}
