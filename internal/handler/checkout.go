package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vpay/internal/service"
)

// CheckoutHandler handles HTTP requests for initiating payment.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CheckoutResponse is the HTTP response for a successful checkout initiation.
type CheckoutResponse struct {
	Result   string `json:"result"`
	Redirect string `json:"redirect"`
}

// Initiate handles POST /v1/orders/:id/checkout
//
// A declined session and an unreachable provider both surface to the
// storefront as the same generic decline; the distinction lives in the logs.
func (h *CheckoutHandler) Initiate(c *gin.Context) {
	session, err := h.checkoutService.Initiate(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPaymentDeclined) || errors.Is(err, service.ErrProviderUnavailable) {
			c.JSON(http.StatusPaymentRequired, ErrorResponse{Error: service.ErrPaymentDeclined.Error()})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CheckoutResponse{
		Result:   "success",
		Redirect: session.RedirectURL,
	})
}
