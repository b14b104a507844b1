package repository

import (
	"context"

	"vpay/internal/domain"
)

// OrderRepository defines the persistence operations for orders. It is the
// gateway's view of the store's order subsystem.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetAll retrieves all orders.
	GetAll(ctx context.Context) ([]*domain.Order, error)

	// MarkPaid transitions an order to PAID and records the payment time.
	MarkPaid(ctx context.Context, id string) error

	// ReduceStock releases the stock reserved for the order's lines.
	ReduceStock(ctx context.Context, id string) error
}
