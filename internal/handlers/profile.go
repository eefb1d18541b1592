package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/emporia/internal/middleware"
	"github.com/example/emporia/internal/models"
	"github.com/example/emporia/internal/utils"
)

// ProfileHandler manages the authenticated user's profile.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UpdateProfile merges the provided fields over the stored record. A too-short
// password is a soft failure: HTTP 200 with an error body and no mutation.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return profileUpdateError(c, err)
	}

	if req.Password != "" && len(req.Password) < 6 {
		return c.JSON(fiber.Map{
			"error": "Password is required and 6 character long",
		})
	}

	if req.Password != "" {
		passwordHash, err := utils.HashPassword(req.Password)
		if err != nil {
			return profileUpdateError(c, err)
		}
		user.PasswordHash = passwordHash
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}

	if err := h.db.Save(&user).Error; err != nil {
		return profileUpdateError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Profile Updated Successfully",
		"updatedUser": user,
	})
}

func profileUpdateError(c *fiber.Ctx, err error) error {
	log.Printf("update profile: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Error While Updating Profile",
		"error":   err.Error(),
	})
}
