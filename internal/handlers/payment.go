package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/emporia/internal/events"
	"github.com/example/emporia/internal/middleware"
	"github.com/example/emporia/internal/models"
	"github.com/example/emporia/internal/services"
)

// PaymentHandler drives the payment gateway checkout flow.
type PaymentHandler struct {
	db       *gorm.DB
	gateway  services.Gateway
	producer *events.Producer
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(db *gorm.DB, gateway services.Gateway, producer *events.Producer) *PaymentHandler {
	return &PaymentHandler{db: db, gateway: gateway, producer: producer}
}

// Token issues a gateway client token for the checkout UI.
func (h *PaymentHandler) Token(c *fiber.Ctx) error {
	token, err := h.gateway.ClientToken(c.UserContext())
	if err != nil {
		return paymentError(c, "Error while generating token", err)
	}

	return c.JSON(fiber.Map{
		"clientToken": token,
	})
}

type cartItem struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

type paymentRequest struct {
	Nonce string     `json:"nonce"`
	Cart  []cartItem `json:"cart"`
}

// Payment charges the cart total through the gateway and records the order.
// The order is persisted only after the gateway accepts the sale.
func (h *PaymentHandler) Payment(c *fiber.Ctx) error {
	buyerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing authenticated user")
	}

	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Nonce == "" || len(req.Cart) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "nonce and cart are required")
	}

	var total float64
	ids := make([]uuid.UUID, 0, len(req.Cart))
	for _, item := range req.Cart {
		total += item.Price
		if id, err := uuid.Parse(item.ID); err == nil {
			ids = append(ids, id)
		}
	}

	result, transactionID, err := h.gateway.Sale(c.UserContext(), total, req.Nonce)
	if err != nil {
		return paymentError(c, "Error while processing payment", err)
	}

	var products []models.Product
	if err := h.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return paymentError(c, "Error while saving order", err)
	}

	order := models.Order{
		BuyerID:  buyerID,
		Status:   models.StatusNotProcess,
		Payment:  result,
		Products: products,
	}
	if err := h.db.Create(&order).Error; err != nil {
		return paymentError(c, "Error while saving order", err)
	}

	h.publish(order.ID.String(), fiber.Map{
		"type":           "order_paid",
		"buyer_id":       buyerID.String(),
		"transaction_id": transactionID,
		"amount":         total,
	})

	return c.JSON(fiber.Map{
		"ok": true,
	})
}

func (h *PaymentHandler) publish(key string, event fiber.Map) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.producer.Publish(ctx, events.TopicOrderEvents, key, event); err != nil {
		log.Printf("event publish failed: %v", err)
	}
}

func paymentError(c *fiber.Ctx, message string, err error) error {
	log.Printf("payment: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
