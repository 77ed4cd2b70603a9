package models

import "time"

// Order statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// OrderItem represents a single item within an order.
type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   string  `json:"order_id" gorm:"type:varchar(36);index;not null"`
	ProductID uint    `json:"product_id" gorm:"index;not null" validate:"required"`
	Quantity  int     `json:"quantity" gorm:"not null" validate:"required,gt=0"`
	Price     float64 `json:"price"` // Price at the time of order
}

// Order represents a customer order placed from the storefront cart.
type Order struct {
	ID           string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerName string      `json:"customer_name" gorm:"type:varchar(255);not null" validate:"required"`
	Phone        string      `json:"phone" gorm:"type:varchar(30);not null" validate:"required"`
	Address      string      `json:"address" gorm:"type:text;not null" validate:"required"`
	Note         string      `json:"note" gorm:"type:text"`
	TotalPrice   float64     `json:"total_price"`
	Status       string      `json:"status" gorm:"type:varchar(20);index"` // pending, processing, shipped, delivered, cancelled
	Items        []OrderItem `json:"items" gorm:"foreignKey:OrderID" validate:"required,min=1,dive"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
