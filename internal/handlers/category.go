package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/example/emporia/internal/models"
)

// CategoryHandler manages catalog categories.
type CategoryHandler struct {
	db *gorm.DB
}

// NewCategoryHandler constructs CategoryHandler.
func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

type categoryRequest struct {
	Name string `json:"name"`
}

// Create adds a new category. Creating a duplicate name is a soft failure.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Name is required"})
	}

	var existing models.Category
	err := h.db.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "Category Already Exists",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return categoryError(c, "Error in Category", err)
	}

	category := models.Category{
		Name: req.Name,
		Slug: slug.Make(req.Name),
	}
	if err := h.db.Create(&category).Error; err != nil {
		return categoryError(c, "Error in Category", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "new category created",
		"category": category,
	})
}

// Update renames a category and refreshes its slug.
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return categoryError(c, "Error while updating category", err)
	}

	category.Name = req.Name
	category.Slug = slug.Make(req.Name)
	if err := h.db.Save(&category).Error; err != nil {
		return categoryError(c, "Error while updating category", err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Category Updated Successfully",
		"category": category,
	})
}

// Delete removes a category.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		return categoryError(c, "Error while deleting category", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Category Deleted Successfully",
	})
}

// List returns every category.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.db.Find(&categories).Error; err != nil {
		return categoryError(c, "Error while getting all categories", err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "All Categories List",
		"categories": categories,
	})
}

// Get returns a single category by slug.
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	var category models.Category
	if err := h.db.Where("slug = ?", c.Params("slug")).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return categoryError(c, "Error while getting single category", err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Get Single Category Successfully",
		"category": category,
	})
}

func categoryError(c *fiber.Ctx, message string, err error) error {
	log.Printf("category: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"message": message,
	})
}
