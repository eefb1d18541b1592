package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/emporia/internal/config"
	"github.com/example/emporia/internal/models"
	"github.com/example/emporia/internal/utils"
)

const userContextKey = "currentUserID"

// RequireSignIn validates the session token and loads the authenticated user
// ID into context. Every failure, including a missing header, is terminal for
// the request.
func RequireSignIn(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("Authorization")
		if parts := strings.SplitN(token, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		}

		userID, err := utils.ParseToken(cfg.JWTSecret, token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
				"message": "Error in sign in verification",
			})
		}

		c.Locals(userContextKey, userID)
		return c.Next()
	}
}

// IsAdmin gates admin-only routes. It expects RequireSignIn to have run
// already and checks the persisted role of the authenticated user.
func IsAdmin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "missing authenticated user",
				"message": "Error in admin middleware",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
				"message": "Error in admin middleware",
			})
		}

		if user.Role != models.RoleAdmin {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized Access",
			})
		}

		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
