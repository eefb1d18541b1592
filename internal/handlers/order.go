package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/emporia/internal/events"
	"github.com/example/emporia/internal/middleware"
	"github.com/example/emporia/internal/models"
)

// OrderHandler manages order listing and status updates.
type OrderHandler struct {
	db       *gorm.DB
	producer *events.Producer
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, producer *events.Producer) *OrderHandler {
	return &OrderHandler{db: db, producer: producer}
}

// orderScope loads orders with their products and a name-only buyer
// projection. Product photo bytes are tagged out of JSON, so listings never
// carry them to the client.
func (h *OrderHandler) orderScope() *gorm.DB {
	return h.db.
		Preload("Products").
		Preload("Buyer", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name")
		})
}

// GetOrders lists the authenticated user's orders.
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orders := []models.Order{}
	if err := h.orderScope().
		Where("buyer_id = ?", userID).
		Find(&orders).Error; err != nil {
		return ordersError(c, err)
	}

	return c.JSON(orders)
}

// GetAllOrders lists every order, newest first. Admin only.
func (h *OrderHandler) GetAllOrders(c *fiber.Ctx) error {
	orders := []models.Order{}
	if err := h.orderScope().
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return ordersError(c, err)
	}

	return c.JSON(orders)
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// OrderStatus sets the status of an order by id. An unknown id yields a JSON
// null body, matching the lookup-and-update contract rather than a 404.
func (h *OrderHandler) OrderStatus(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return orderUpdateError(c, err)
	}

	var req orderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return orderUpdateError(c, err)
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(nil)
		}
		return orderUpdateError(c, err)
	}

	order.Status = req.Status
	if err := h.db.Model(&order).Update("status", req.Status).Error; err != nil {
		return orderUpdateError(c, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.producer.Publish(ctx, events.TopicOrderEvents, order.ID.String(), fiber.Map{
		"type":   "order_status_changed",
		"status": order.Status,
	}); err != nil {
		log.Printf("event publish failed: %v", err)
	}

	return c.JSON(order)
}

func ordersError(c *fiber.Ctx, err error) error {
	log.Printf("get orders: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Error While Getting Orders",
		"error":   err.Error(),
	})
}

func orderUpdateError(c *fiber.Ctx, err error) error {
	log.Printf("update order: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Error While Updating Order",
		"error":   err.Error(),
	})
}
