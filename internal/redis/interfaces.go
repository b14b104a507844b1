package redis

import (
	"context"

	"vpay/internal/domain"
)

// CartStoreInterface defines the interface for cart operations.
type CartStoreInterface interface {
	GetItems(ctx context.Context, customer string) ([]domain.CartItem, error)
	AddItem(ctx context.Context, customer string, item domain.CartItem) error
	EmptyCart(ctx context.Context, customer string) error
}

// Ensure concrete types implement interfaces.
var _ CartStoreInterface = (*CartStore)(nil)
