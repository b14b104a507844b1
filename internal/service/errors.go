package service

import "errors"

var (
	// ErrInvalidOrderID is returned when order ID is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrInvalidOrderTotal is returned when order total is not positive.
	ErrInvalidOrderTotal = errors.New("invalid order total")

	// ErrInvalidCurrency is returned when currency code is empty.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrInvalidBillingEmail is returned when billing email is empty.
	ErrInvalidBillingEmail = errors.New("invalid billing email")

	// ErrGatewayNotConfigured is returned when the gateway is disabled or
	// missing its merchant keys.
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")

	// ErrOrderAlreadyPaid is returned when initiating checkout for a paid order.
	ErrOrderAlreadyPaid = errors.New("order already paid")

	// ErrPaymentDeclined is returned when the provider refuses to create a
	// payment session.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrProviderUnavailable is returned when the provider cannot be reached
	// or answers with an undecodable response. Surfaced to the shopper
	// identically to ErrPaymentDeclined; kept distinct for observability.
	ErrProviderUnavailable = errors.New("payment provider unavailable")

	// ErrMalformedNotification is returned when a webhook body cannot be
	// parsed or lacks the transaction reference.
	ErrMalformedNotification = errors.New("malformed webhook notification")

	// ErrUnknownOrder is returned when a webhook references an order that
	// does not exist.
	ErrUnknownOrder = errors.New("webhook references unknown order")

	// ErrSecretMismatch is returned when a webhook's secret key does not
	// match the configured merchant secret.
	ErrSecretMismatch = errors.New("webhook secret mismatch")

	// ErrIgnoredStatus is returned when a webhook carries a status other
	// than "completed". Pending and failed notifications are ignored, not
	// treated as cancellations.
	ErrIgnoredStatus = errors.New("webhook status ignored")
)
