// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// ShippingAddress is a value object embedded in Order; it has no lifecycle
// of its own.
type ShippingAddress struct {
	Name    string `json:"name" gorm:"size:255;not null"`
	Phone   string `json:"phone" gorm:"size:20;not null"`
	Address string `json:"address" gorm:"size:512;not null"`
	City    string `json:"city" gorm:"size:100;not null"`
	State   string `json:"state" gorm:"size:100;not null"`
	Pincode string `json:"pincode" gorm:"size:10;not null"`
}

// Order money fields are computed once at checkout and never recomputed
// from live product data afterwards.
type Order struct {
	BaseModel
	OrderNumber     string          `json:"order_number" gorm:"size:32;uniqueIndex;not null"`
	SessionID       string          `json:"-" gorm:"size:64;index"`
	UserID          *uuid.UUID      `json:"user_id,omitempty" gorm:"type:uuid;index"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:shipping_"`
	Subtotal        float64         `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	ShippingCost    float64         `json:"shipping_cost" gorm:"type:decimal(10,2);not null"`
	Total           float64         `json:"total" gorm:"type:decimal(10,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"type:varchar(20);not null"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);default:'pending'"`
	TransactionID   *string         `json:"transaction_id,omitempty" gorm:"size:255"`

	// Relationships
	OrderItems []OrderItem `json:"order_items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is a snapshot of the product at purchase time, so later product
// edits do not affect historical orders.
type OrderItem struct {
	BaseModel
	OrderID      uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductName  string    `json:"product_name" gorm:"size:255;not null"`
	ProductImage *string   `json:"product_image,omitempty" gorm:"size:512"`
	Price        float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity     int       `json:"quantity" gorm:"not null"`
}
