package service

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"vpay/internal/config"
	"vpay/internal/domain"
	"vpay/internal/repository"
	"vpay/internal/vpay"
)

// SessionCreator creates hosted payment sessions with the provider.
type SessionCreator interface {
	CreateSession(ctx context.Context, req vpay.SessionRequest) (string, error)
}

// RateSource looks up conversion rates to USD.
type RateSource interface {
	GetRate(ctx context.Context, currency string) (float64, error)
}

// CheckoutService initiates hosted payment sessions for orders.
type CheckoutService struct {
	orders   repository.OrderRepository
	provider SessionCreator
	rates    RateSource
	vpayCfg  config.VPayConfig
	shopCfg  config.ShopConfig
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	orders repository.OrderRepository,
	provider SessionCreator,
	rates RateSource,
	vpayCfg config.VPayConfig,
	shopCfg config.ShopConfig,
) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		provider: provider,
		rates:    rates,
		vpayCfg:  vpayCfg,
		shopCfg:  shopCfg,
	}
}

// Ready reports whether the gateway is enabled and fully configured.
// An empty public key marks the gateway as needing setup.
func (s *CheckoutService) Ready() bool {
	return s.vpayCfg.Enabled && s.vpayCfg.PublicKey != "" && s.vpayCfg.SecretKey != ""
}

// Initiate creates a payment session for the order and returns the redirect
// instruction pointing at the provider's hosted payment page.
//
// The amount is converted to its USD equivalent on a best-effort basis: any
// conversion problem falls back to the original total rather than aborting
// checkout. A single failed provider call is a single declined result; there
// are no retries.
func (s *CheckoutService) Initiate(ctx context.Context, orderID string) (*domain.PaymentSession, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if !s.Ready() {
		return nil, ErrGatewayNotConfigured
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Paid() {
		return nil, ErrOrderAlreadyPaid
	}

	amount := s.ToUSD(ctx, order.Total, order.Currency)

	code, err := s.provider.CreateSession(ctx, vpay.SessionRequest{
		Key:                   s.vpayCfg.SecretKey,
		Customer:              order.BillingEmail,
		Amount:                amount,
		WebhookURL:            s.webhookURL(),
		ReturnURL:             s.returnURL(order.ID),
		InternalTransactionID: order.ID,
		ReceivingCurrency:     s.vpayCfg.ReceivingCurrency,
	})
	if err != nil {
		if errors.Is(err, vpay.ErrSessionDeclined) {
			log.Printf("checkout declined by provider: order=%s", order.ID)
			return nil, ErrPaymentDeclined
		}
		log.Printf("checkout provider call failed: order=%s err=%v", order.ID, err)
		return nil, ErrProviderUnavailable
	}

	return &domain.PaymentSession{
		ID:          uuid.New().String(),
		OrderID:     order.ID,
		Code:        code,
		Amount:      amount,
		RedirectURL: strings.TrimRight(s.vpayCfg.CheckoutBaseURL, "/") + "/checkout/" + code,
	}, nil
}

// ToUSD converts amount from the given currency to its USD equivalent using
// the provider's rate endpoint. Conversion is best-effort and never fails:
// a non-positive amount, a blank currency, or any rate-lookup problem
// returns the amount unchanged. Rates are fetched fresh on every call.
func (s *CheckoutService) ToUSD(ctx context.Context, amount float64, currency string) float64 {
	if amount <= 0 {
		return amount
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return amount
	}

	rate, err := s.rates.GetRate(ctx, currency)
	if err != nil {
		log.Printf("rate lookup failed, using original amount: currency=%s err=%v", currency, err)
		return amount
	}
	if rate <= 0 {
		return amount
	}

	return amount * rate
}

// webhookURL is the fixed server-to-server callback endpoint this gateway
// exposes, handed to the provider on every session creation.
func (s *CheckoutService) webhookURL() string {
	return strings.TrimRight(s.shopCfg.PublicBaseURL, "/") + "/webhook"
}

// returnURL is where the shopper lands after paying, with the order id
// escaped for safe inclusion in the query string.
func (s *CheckoutService) returnURL(orderID string) string {
	return s.shopCfg.ReturnURL + "?order=" + url.QueryEscape(orderID)
}
