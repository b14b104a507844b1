package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vpay/internal/config"
	"vpay/internal/domain"
	"vpay/internal/repository"
	"vpay/internal/service"
	"vpay/internal/vpay"
)

// ──────────────────────────────────────────────
// SESSION INITIATION
// ──────────────────────────────────────────────

func testVPayConfig() config.VPayConfig {
	return config.VPayConfig{
		Enabled:           true,
		Title:             "Virtual Payments",
		PublicKey:         "pub-key",
		SecretKey:         "merchant-secret",
		BaseURL:           "https://app.virtual-payments.com",
		CheckoutBaseURL:   "https://app.virtual-payments.com",
		ReceivingCurrency: "BTC",
	}
}

func testShopConfig() config.ShopConfig {
	return config.ShopConfig{
		PublicBaseURL: "https://gateway.example.com",
		ReturnURL:     "https://shop.example.com/checkout/thank-you",
	}
}

func pendingOrder(id string) *domain.Order {
	return &domain.Order{
		ID:           id,
		Total:        100,
		Currency:     "EUR",
		BillingEmail: "shopper@example.com",
		Status:       domain.OrderStatusPending,
		CreatedAt:    time.Now(),
	}
}

func TestCheckout_SuccessReturnsRedirect(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	orderRepo.AddOrder(pendingOrder("order-1"))
	provider := &MockSessionCreator{Code: "abc123"}
	rates := &MockRateSource{Rate: 1.25}

	svc := service.NewCheckoutService(orderRepo, provider, rates, testVPayConfig(), testShopConfig())

	session, err := svc.Initiate(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.RedirectURL != "https://app.virtual-payments.com/checkout/abc123" {
		t.Errorf("unexpected redirect URL: %s", session.RedirectURL)
	}
	if session.Code != "abc123" {
		t.Errorf("unexpected session code: %s", session.Code)
	}
	if session.Amount != 125.0 {
		t.Errorf("expected converted amount 125.0, got %v", session.Amount)
	}
}

func TestCheckout_BuildsProviderRequestFromOrder(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	orderRepo.AddOrder(pendingOrder("order-1"))
	provider := &MockSessionCreator{Code: "abc123"}
	rates := &MockRateSource{Rate: 1.25}

	svc := service.NewCheckoutService(orderRepo, provider, rates, testVPayConfig(), testShopConfig())

	if _, err := svc.Initiate(context.Background(), "order-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := provider.LastRequest
	if req.Key != "merchant-secret" {
		t.Errorf("expected merchant secret in key field, got %q", req.Key)
	}
	if req.Customer != "shopper@example.com" {
		t.Errorf("unexpected customer: %q", req.Customer)
	}
	if req.Amount != 125.0 {
		t.Errorf("expected converted amount 125.0, got %v", req.Amount)
	}
	if req.WebhookURL != "https://gateway.example.com/webhook" {
		t.Errorf("unexpected webhook URL: %q", req.WebhookURL)
	}
	if !strings.HasPrefix(req.ReturnURL, "https://shop.example.com/checkout/thank-you?order=") {
		t.Errorf("unexpected return URL: %q", req.ReturnURL)
	}
	if req.InternalTransactionID != "order-1" {
		t.Errorf("unexpected transaction id: %q", req.InternalTransactionID)
	}
	if req.ReceivingCurrency != "BTC" {
		t.Errorf("unexpected receiving currency: %q", req.ReceivingCurrency)
	}
}

func TestCheckout_ReturnURLEscapesOrderID(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	orderRepo.AddOrder(pendingOrder("order 1&x"))
	provider := &MockSessionCreator{Code: "abc123"}
	rates := &MockRateSource{Rate: 1}

	svc := service.NewCheckoutService(orderRepo, provider, rates, testVPayConfig(), testShopConfig())

	if _, err := svc.Initiate(context.Background(), "order 1&x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(provider.LastRequest.ReturnURL, "order=order+1%26x") {
		t.Errorf("order id not escaped in return URL: %q", provider.LastRequest.ReturnURL)
	}
}

func TestCheckout_ProviderDeclines(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	orderRepo.AddOrder(pendingOrder("order-1"))
	provider := &MockSessionCreator{CreateError: vpay.ErrSessionDeclined}
	rates := &MockRateSource{Rate: 1.25}

	svc := service.NewCheckoutService(orderRepo, provider, rates, testVPayConfig(), testShopConfig())

	_, err := svc.Initiate(context.Background(), "order-1")
	if !errors.Is(err, service.ErrPaymentDeclined) {
		t.Errorf("expected ErrPaymentDeclined, got %v", err)
	}
}

func TestCheckout_ProviderUnreachable(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	orderRepo.AddOrder(pendingOrder("order-1"))
	provider := &MockSessionCreator{CreateError: errors.New("connection refused")}
	rates := &MockRateSource{Rate: 1.25}

	svc := service.NewCheckoutService(orderRepo, provider, rates, testVPayConfig(), testShopConfig())

	_, err := svc.Initiate(context.Background(), "order-1")
	if !errors.Is(err, service.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestCheckout_NoRetryOnFailure(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	orderRepo.AddOrder(pendingOrder("order-1"))
	provider := &MockSessionCreator{CreateError: errors.New("timeout")}
	rates := &MockRateSource{Rate: 1}

	svc := service.NewCheckoutService(orderRepo, provider, rates, testVPayConfig(), testShopConfig())

	_, _ = svc.Initiate(context.Background(), "order-1")

	if provider.CreateCallCount != 1 {
		t.Errorf("expected exactly one provider call, got %d", provider.CreateCallCount)
	}
}

func TestCheckout_OrderNotFound(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	provider := &MockSessionCreator{Code: "abc123"}
	rates := &MockRateSource{Rate: 1}

	svc := service.NewCheckoutService(orderRepo, provider, rates, testVPayConfig(), testShopConfig())

	_, err := svc.Initiate(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if provider.CreateCallCount != 0 {
		t.Error("provider should not be called for unknown order")
	}
}

func TestCheckout_OrderAlreadyPaid(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	order := pendingOrder("order-1")
	order.Status = domain.OrderStatusPaid
	orderRepo.AddOrder(order)
	provider := &MockSessionCreator{Code: "abc123"}
	rates := &MockRateSource{Rate: 1}

	svc := service.NewCheckoutService(orderRepo, provider, rates, testVPayConfig(), testShopConfig())

	_, err := svc.Initiate(context.Background(), "order-1")
	if !errors.Is(err, service.ErrOrderAlreadyPaid) {
		t.Errorf("expected ErrOrderAlreadyPaid, got %v", err)
	}
}

func TestCheckout_GatewayNotConfigured(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	orderRepo.AddOrder(pendingOrder("order-1"))
	provider := &MockSessionCreator{Code: "abc123"}
	rates := &MockRateSource{Rate: 1}

	cfg := testVPayConfig()
	cfg.SecretKey = ""

	svc := service.NewCheckoutService(orderRepo, provider, rates, cfg, testShopConfig())

	_, err := svc.Initiate(context.Background(), "order-1")
	if !errors.Is(err, service.ErrGatewayNotConfigured) {
		t.Errorf("expected ErrGatewayNotConfigured, got %v", err)
	}
	if provider.CreateCallCount != 0 {
		t.Error("provider should not be called when gateway is not configured")
	}
}

func TestCheckout_ConversionFailureFallsBackToOriginalAmount(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	orderRepo.AddOrder(pendingOrder("order-1"))
	provider := &MockSessionCreator{Code: "abc123"}
	rates := &MockRateSource{RateError: errors.New("rate endpoint down")}

	svc := service.NewCheckoutService(orderRepo, provider, rates, testVPayConfig(), testShopConfig())

	session, err := svc.Initiate(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("conversion failure must not abort checkout: %v", err)
	}

	if provider.LastRequest.Amount != 100 {
		t.Errorf("expected original amount 100, got %v", provider.LastRequest.Amount)
	}
	if session.Amount != 100 {
		t.Errorf("expected session amount 100, got %v", session.Amount)
	}
}
