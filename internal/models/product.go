package models

import "github.com/google/uuid"

// Category groups products for browsing and filtering.
type Category struct {
	BaseModel
	Name string `json:"name"`
	Slug string `gorm:"uniqueIndex" json:"slug"`
}

// Product is a catalog entry. Photo bytes live on the row itself and are
// excluded from JSON; clients fetch them through the photo endpoint.
type Product struct {
	BaseModel
	Name        string     `json:"name"`
	Slug        string     `gorm:"uniqueIndex" json:"slug"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category  `json:"category,omitempty"`
	Quantity    int        `json:"quantity"`
	Shipping    bool       `json:"shipping"`
	PhotoData   []byte     `json:"-"`
	PhotoType   string     `json:"-"`
}
