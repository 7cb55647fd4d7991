package models

import "time"

// Menu item status values as stored and served. A sold-out item stays
// visible on the menu but cannot be added to a cart.
const (
	StatusReady   = "ready"
	StatusSoldOut = "sold-out"
)

// Menu item categories.
const (
	CategoryFood     = "Food"
	CategoryBeverage = "Beverage"
)

// MenuItem represents a sellable entry of the catalog.
type MenuItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" validate:"required,min=1,max=100"`
	Category    string    `json:"category" validate:"required,oneof=Food Beverage"`
	Price       int64     `json:"price" validate:"gte=0"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	Image       string    `json:"image" validate:"omitempty,url"`
	Status      string    `json:"status" validate:"required,oneof=ready sold-out"`
	CreatedAt   time.Time `json:"created_at"`
}

// Available reports whether the item can be ordered.
func (m *MenuItem) Available() bool {
	return m.Status == StatusReady
}

// ValidCategory reports whether c is a known category name.
func ValidCategory(c string) bool {
	return c == CategoryFood || c == CategoryBeverage
}

// ValidStatus reports whether s is a known status value.
func ValidStatus(s string) bool {
	return s == StatusReady || s == StatusSoldOut
}
