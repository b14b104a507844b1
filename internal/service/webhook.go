package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"vpay/internal/redis"
	"vpay/internal/repository"
)

// notificationStatusCompleted is the only provider status that finalizes an
// order. Pending and failed notifications are discarded.
const notificationStatusCompleted = "completed"

// orderRef tolerates both a JSON string and a JSON number for the
// transaction reference; some provider versions send the raw numeric id.
type orderRef string

func (r *orderRef) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = orderRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = orderRef(n.String())
	return nil
}

// notification is the provider's webhook payload.
type notification struct {
	Data struct {
		InternalTransactionID orderRef `json:"internalTransactionId"`
		SecretKey             string   `json:"secretKey"`
		Status                string   `json:"status"`
	} `json:"data"`
}

// WebhookService validates provider notifications and finalizes orders.
type WebhookService struct {
	orders    repository.OrderRepository
	carts     redis.CartStoreInterface
	secretKey string
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(orders repository.OrderRepository, carts redis.CartStoreInterface, secretKey string) *WebhookService {
	return &WebhookService{
		orders:    orders,
		carts:     carts,
		secretKey: secretKey,
	}
}

// HandleNotification processes one inbound webhook delivery. Each validation
// gate discards the notification without side effects; only a notification
// carrying the merchant secret and a "completed" status finalizes the order.
//
// The webhook is reachable without any session state: the provider calls it
// server-to-server, and the shared secret is the sole authentication. Origin
// is not verified (no IP allowlist, no signature header) — a known gap in
// the provider's contract, preserved here.
//
// The finalization sequence (mark paid, reduce stock, empty cart) is neither
// atomic nor idempotent: a failure mid-sequence leaves earlier mutations in
// place, and a duplicate valid delivery runs the sequence again.
func (s *WebhookService) HandleNotification(ctx context.Context, raw []byte) error {
	var n notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return ErrMalformedNotification
	}

	orderID := string(n.Data.InternalTransactionID)
	if orderID == "" {
		return ErrMalformedNotification
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownOrder
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(n.Data.SecretKey), []byte(s.secretKey)) != 1 {
		return ErrSecretMismatch
	}

	if n.Data.Status != notificationStatusCompleted {
		return ErrIgnoredStatus
	}

	if err := s.orders.MarkPaid(ctx, order.ID); err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}

	if err := s.orders.ReduceStock(ctx, order.ID); err != nil {
		return fmt.Errorf("reduce order stock: %w", err)
	}

	if err := s.carts.EmptyCart(ctx, order.BillingEmail); err != nil {
		return fmt.Errorf("empty cart: %w", err)
	}

	return nil
}
