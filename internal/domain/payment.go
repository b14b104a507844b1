package domain

// PaymentSession represents a hosted payment session created with the
// provider for one checkout attempt. Sessions are request-scoped and never
// persisted; the provider confirms the outcome through the webhook.
type PaymentSession struct {
	ID          string
	OrderID     string
	Code        string
	Amount      float64
	RedirectURL string
}

// CartItem is a single line in a customer's active cart.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
