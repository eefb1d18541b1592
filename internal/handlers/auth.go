package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/emporia/internal/config"
	"github.com/example/emporia/internal/events"
	"github.com/example/emporia/internal/models"
	"github.com/example/emporia/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	producer *events.Producer
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, producer *events.Producer) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, producer: producer}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Answer   string `json:"answer"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	// Missing fields report 500 with a field-specific message.
	required := []struct {
		value   string
		message string
	}{
		{req.Name, "Name is Required"},
		{req.Email, "Email is Required"},
		{req.Password, "Password is Required"},
		{req.Phone, "Phone is Required"},
		{req.Address, "Address is Required"},
		{req.Answer, "Answer is Required"},
	}
	for _, field := range required {
		if field.value == "" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": field.message,
			})
		}
	}

	var existing models.User
	err := h.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Already Register please login",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return registrationError(c, err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return registrationError(c, err)
	}

	user := models.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   passwordHash,
		Phone:          req.Phone,
		Address:        req.Address,
		SecurityAnswer: req.Answer,
		Role:           models.RoleUser,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return registrationError(c, err)
	}

	h.publish(events.TopicUserEvents, user.ID.String(), fiber.Map{
		"type":  "user_registered",
		"email": user.Email,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User Register Successfully",
		"user":    user,
	})
}

func registrationError(c *fiber.Ctx, err error) error {
	log.Printf("register: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Error in Registration",
		"error":   err.Error(),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing user and issues a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid email or password",
		})
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Email is not registered",
			})
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Password",
		})
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "login successfully",
		"user": fiber.Map{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"phone":   user.Phone,
			"address": user.Address,
			"role":    user.Role,
		},
		"token": token,
	})
}

type forgotPasswordRequest struct {
	Email       string `json:"email"`
	Answer      string `json:"answer"`
	NewPassword string `json:"newPassword"`
}

// ForgotPassword resets a password after matching the stored security answer.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch {
	case req.Email == "":
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email is required"})
	case req.Answer == "":
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Answer is required"})
	case req.NewPassword == "":
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "New Password is required"})
	}

	var user models.User
	err := h.db.Where("email = ? AND security_answer = ?", req.Email, req.Answer).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Wrong Email Or Answer",
			})
		}
		return err
	}

	passwordHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("password_hash", passwordHash).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password Reset Successfully",
	})
}

// Test is a probe endpoint behind the sign-in and admin gates.
func (h *AuthHandler) Test(c *fiber.Ctx) error {
	return c.SendString("Protected Routes")
}

// Check confirms the caller passed the gates in front of the route.
// The client pings it to validate a stored session.
func (h *AuthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok": true,
	})
}

func (h *AuthHandler) publish(topic, key string, event fiber.Map) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.producer.Publish(ctx, topic, key, event); err != nil {
		log.Printf("event publish failed: %v", err)
	}
}
