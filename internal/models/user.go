package models

// Role values stored on a User.
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// User represents a registered customer or administrator.
type User struct {
	BaseModel
	Name           string  `json:"name"`
	Email          string  `gorm:"uniqueIndex" json:"email"`
	PasswordHash   string  `json:"-"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	SecurityAnswer string  `json:"-"`
	Role           int     `json:"role"`
	Orders         []Order `gorm:"foreignKey:BuyerID" json:"orders,omitempty"`
}
