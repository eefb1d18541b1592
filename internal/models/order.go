package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Order status lifecycle. An order is created in StatusNotProcess as a side
// effect of a successful payment; only its status changes afterwards.
const (
	StatusNotProcess = "Not Process"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// Order records a paid cart. Payment holds the raw gateway transaction
// result as an opaque JSON blob.
type Order struct {
	BaseModel
	BuyerID  uuid.UUID       `gorm:"type:uuid;index" json:"buyer_id"`
	Buyer    *User           `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	Status   string          `gorm:"default:'Not Process'" json:"status"`
	Payment  json.RawMessage `gorm:"type:jsonb" json:"payment,omitempty"`
	Products []Product       `gorm:"many2many:order_products;" json:"products,omitempty"`
}
