package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus tracks an order through fulfillment
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is one of the known values
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a placed order. TotalPrice is always derived from the
// item subtotals, never supplied by the caller.
type Order struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CustomerName string          `json:"customer_name" db:"customer_name"`
	Email        string          `json:"email" db:"email"`
	Phone        string          `json:"phone" db:"phone"`
	Address      string          `json:"address" db:"address"`
	TotalPrice   decimal.Decimal `json:"total_price" db:"total_price"`
	Status       OrderStatus     `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	Items        []OrderItem     `json:"items,omitempty"`
}

// OrderItem is a line item snapshot. Price is the unit price at purchase
// time and is independent of later catalog price changes.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
}
