package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"vpay/internal/domain"
)

// CartStore handles active shopping carts in Redis, keyed by customer email.
type CartStore struct {
	client *redis.Client
}

// NewCartStore creates a new CartStore.
func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

// CartTTL bounds how long an abandoned cart survives.
const CartTTL = 72 * time.Hour

const cartPrefix = "cart:"

// GetItems retrieves the customer's cart. An absent cart is an empty cart.
func (s *CartStore) GetItems(ctx context.Context, customer string) ([]domain.CartItem, error) {
	data, err := s.client.Get(ctx, cartPrefix+customer).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem appends an item to the customer's cart.
func (s *CartStore) AddItem(ctx context.Context, customer string, item domain.CartItem) error {
	items, err := s.GetItems(ctx, customer)
	if err != nil {
		return err
	}

	items = append(items, item)
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, cartPrefix+customer, data, CartTTL).Err()
}

// EmptyCart removes the customer's active cart. Called once payment for the
// customer's order is confirmed.
func (s *CartStore) EmptyCart(ctx context.Context, customer string) error {
	return s.client.Del(ctx, cartPrefix+customer).Err()
}
