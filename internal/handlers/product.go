package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/example/emporia/internal/events"
	"github.com/example/emporia/internal/models"
	"github.com/example/emporia/internal/utils"
)

const (
	// maxPhotoBytes caps uploaded product photos.
	maxPhotoBytes = 1_000_000
	// frontPageLimit caps the unpaginated product listing.
	frontPageLimit = 12
	// perPage is the page size of the paginated listing.
	perPage = 6
	// relatedLimit caps the related-products listing.
	relatedLimit = 3
)

// ProductHandler manages the product catalog.
type ProductHandler struct {
	db       *gorm.DB
	producer *events.Producer
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, producer *events.Producer) *ProductHandler {
	return &ProductHandler{db: db, producer: producer}
}

// productForm carries the parsed multipart fields of a create/update request.
type productForm struct {
	Name        string
	Description string
	Price       float64
	CategoryID  uuid.UUID
	Quantity    int
	Shipping    bool
	PhotoData   []byte
	PhotoType   string
}

// parseProductForm validates the multipart payload. A non-empty message means
// a validation failure the caller reports with the 500 contract.
func parseProductForm(c *fiber.Ctx) (productForm, string) {
	var form productForm

	form.Name = c.FormValue("name")
	form.Description = c.FormValue("description")
	price := c.FormValue("price")
	category := c.FormValue("category")
	quantity := c.FormValue("quantity")

	switch {
	case form.Name == "":
		return form, "Name is Required"
	case form.Description == "":
		return form, "Description is Required"
	case price == "":
		return form, "Price is Required"
	case category == "":
		return form, "Category is Required"
	case quantity == "":
		return form, "Quantity is Required"
	}

	parsedPrice, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return form, "Price is Required"
	}
	form.Price = parsedPrice

	categoryID, err := uuid.Parse(category)
	if err != nil {
		return form, "Category is Required"
	}
	form.CategoryID = categoryID

	parsedQuantity, err := strconv.Atoi(quantity)
	if err != nil {
		return form, "Quantity is Required"
	}
	form.Quantity = parsedQuantity

	if shipping := c.FormValue("shipping"); shipping != "" {
		form.Shipping, _ = strconv.ParseBool(shipping)
	}

	if file, err := c.FormFile("photo"); err == nil {
		if file.Size > maxPhotoBytes {
			return form, "photo is Required and should be less then 1mb"
		}
		src, err := file.Open()
		if err != nil {
			return form, "photo is Required and should be less then 1mb"
		}
		defer src.Close()
		data, err := io.ReadAll(src)
		if err != nil || len(data) > maxPhotoBytes {
			return form, "photo is Required and should be less then 1mb"
		}
		form.PhotoData = data
		form.PhotoType = file.Header.Get("Content-Type")
	}

	return form, ""
}

// Create persists a new product from a multipart form. Admin only.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	form, msg := parseProductForm(c)
	if msg != "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": msg,
		})
	}

	product := models.Product{
		Name:        form.Name,
		Slug:        slug.Make(form.Name),
		Description: form.Description,
		Price:       form.Price,
		CategoryID:  &form.CategoryID,
		Quantity:    form.Quantity,
		Shipping:    form.Shipping,
		PhotoData:   form.PhotoData,
		PhotoType:   form.PhotoType,
	}

	if err := h.db.Create(&product).Error; err != nil {
		return productError(c, fiber.StatusInternalServerError, "Error in creating product", err)
	}

	h.publish(product.ID.String(), fiber.Map{
		"type": "product_created",
		"slug": product.Slug,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Product Created Successfully",
		"products": product,
	})
}

// Update replaces the mutable fields of an existing product. Admin only.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("pid"))
	if err != nil {
		return productError(c, fiber.StatusInternalServerError, "Error in updating product", err)
	}

	form, msg := parseProductForm(c)
	if msg != "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": msg,
		})
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return productError(c, fiber.StatusInternalServerError, "Error in updating product", err)
	}

	product.Name = form.Name
	product.Slug = slug.Make(form.Name)
	product.Description = form.Description
	product.Price = form.Price
	product.CategoryID = &form.CategoryID
	product.Quantity = form.Quantity
	product.Shipping = form.Shipping
	if len(form.PhotoData) > 0 {
		product.PhotoData = form.PhotoData
		product.PhotoType = form.PhotoType
	}

	if err := h.db.Save(&product).Error; err != nil {
		return productError(c, fiber.StatusInternalServerError, "Error in updating product", err)
	}

	h.publish(product.ID.String(), fiber.Map{
		"type": "product_updated",
		"slug": product.Slug,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Product Updated Successfully",
		"products": product,
	})
}

// Delete removes a product. Admin only.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("pid"))
	if err != nil {
		return productError(c, fiber.StatusInternalServerError, "Error while deleting product", err)
	}

	if err := h.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return productError(c, fiber.StatusInternalServerError, "Error while deleting product", err)
	}

	h.publish(id.String(), fiber.Map{"type": "product_deleted"})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product Deleted successfully",
	})
}

// List returns the newest products for the storefront, capped at twelve.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var products []models.Product
	if err := h.db.Preload("Category").
		Order("created_at desc").
		Limit(frontPageLimit).
		Find(&products).Error; err != nil {
		return productError(c, fiber.StatusInternalServerError, "Error in getting products", err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"counTotal": len(products),
		"message":   "All Products",
		"products":  products,
	})
}

// Get returns a single product by slug.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	var product models.Product
	if err := h.db.Preload("Category").
		Where("slug = ?", c.Params("slug")).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return productError(c, fiber.StatusInternalServerError, "Error while getting single product", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Single Product Fetched",
		"product": product,
	})
}

// Photo streams the stored photo bytes with their content type.
func (h *ProductHandler) Photo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("pid"))
	if err != nil {
		return productError(c, fiber.StatusInternalServerError, "Error while getting photo", err)
	}

	var product models.Product
	if err := h.db.Select("photo_data", "photo_type").
		First(&product, "id = ?", id).Error; err != nil {
		return productError(c, fiber.StatusInternalServerError, "Error while getting photo", err)
	}

	if len(product.PhotoData) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "photo not found")
	}

	c.Set(fiber.HeaderContentType, product.PhotoType)
	return c.Send(product.PhotoData)
}

type productFiltersRequest struct {
	Checked []string  `json:"checked"`
	Radio   []float64 `json:"radio"`
}

// Filters narrows products by category ids and an inclusive price range.
func (h *ProductHandler) Filters(c *fiber.Ctx) error {
	var req productFiltersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	query := h.db.Model(&models.Product{})
	if len(req.Checked) > 0 {
		ids := make([]uuid.UUID, 0, len(req.Checked))
		for _, value := range req.Checked {
			if id, err := uuid.Parse(value); err == nil {
				ids = append(ids, id)
			}
		}
		query = query.Where("category_id IN ?", ids)
	}
	if len(req.Radio) == 2 {
		query = query.Where("price >= ? AND price <= ?", req.Radio[0], req.Radio[1])
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return productError(c, fiber.StatusBadRequest, "Error While Filtering Products", err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
	})
}

// Count reports the catalog size for client-side pagination.
func (h *ProductHandler) Count(c *fiber.Ctx) error {
	var total int64
	if err := h.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return productError(c, fiber.StatusBadRequest, "Error in product count", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"total":   total,
	})
}

// ListPage returns one fixed-size page of products, newest first.
func (h *ProductHandler) ListPage(c *fiber.Ctx) error {
	page := utils.ParsePage(c.Params("page"))
	offset, limit := utils.PageBounds(page, perPage)

	var products []models.Product
	if err := h.db.Preload("Category").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return productError(c, fiber.StatusBadRequest, "Error in per page listing", err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
	})
}

// Search matches the keyword against product names and descriptions and
// responds with a bare JSON array.
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	keyword := "%" + strings.ToLower(c.Params("keyword")) + "%"

	results := []models.Product{}
	if err := h.db.
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", keyword, keyword).
		Find(&results).Error; err != nil {
		return productError(c, fiber.StatusBadRequest, "Error In Search Product API", err)
	}

	return c.JSON(results)
}

// Related lists up to three other products of the same category.
func (h *ProductHandler) Related(c *fiber.Ctx) error {
	pid, err := uuid.Parse(c.Params("pid"))
	if err != nil {
		return productError(c, fiber.StatusBadRequest, "Error while getting related products", err)
	}
	cid, err := uuid.Parse(c.Params("cid"))
	if err != nil {
		return productError(c, fiber.StatusBadRequest, "Error while getting related products", err)
	}

	var products []models.Product
	if err := h.db.Preload("Category").
		Where("category_id = ? AND id <> ?", cid, pid).
		Limit(relatedLimit).
		Find(&products).Error; err != nil {
		return productError(c, fiber.StatusBadRequest, "Error while getting related products", err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
	})
}

// CategoryProducts lists the products of the category named by slug.
func (h *ProductHandler) CategoryProducts(c *fiber.Ctx) error {
	var category models.Category
	if err := h.db.Where("slug = ?", c.Params("slug")).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return productError(c, fiber.StatusBadRequest, "Error While Getting products", err)
	}

	var products []models.Product
	if err := h.db.Preload("Category").
		Where("category_id = ?", category.ID).
		Find(&products).Error; err != nil {
		return productError(c, fiber.StatusBadRequest, "Error While Getting products", err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"category": category,
		"products": products,
	})
}

func (h *ProductHandler) publish(key string, event fiber.Map) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.producer.Publish(ctx, events.TopicProductEvents, key, event); err != nil {
		log.Printf("event publish failed: %v", err)
	}
}

func productError(c *fiber.Ctx, status int, message string, err error) error {
	log.Printf("product: %v", err)
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
