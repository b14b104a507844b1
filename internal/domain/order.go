package domain

import "time"

// OrderStatus represents the current status of an order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
)

// Order represents a storefront order awaiting payment.
type Order struct {
	ID           string
	Total        float64
	Currency     string
	BillingEmail string
	Status       OrderStatus
	StockReduced bool
	CreatedAt    time.Time
	PaidAt       *time.Time
}

// Paid reports whether the order has already been paid.
func (o *Order) Paid() bool {
	return o.Status == OrderStatusPaid
}
