package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vpay/internal/service"
)

// WebhookHandler handles the provider's server-to-server notifications.
type WebhookHandler struct {
	webhookService *service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// Handle handles POST /webhook
//
// Status contract: 400 only when the body is unreadable or not the expected
// notification shape; 200 for everything else, including discarded
// notifications, so a forger learns nothing from the response and the
// provider does not retry deliveries we will never accept.
func (h *WebhookHandler) Handle(c *gin.Context) {
	deliveryID := uuid.New().String()

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("webhook %s: body read failed: %v", deliveryID, err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable body"})
		return
	}

	err = h.webhookService.HandleNotification(c.Request.Context(), raw)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})

	case errors.Is(err, service.ErrMalformedNotification):
		log.Printf("webhook %s: discarded: %v", deliveryID, err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed notification"})

	case errors.Is(err, service.ErrUnknownOrder),
		errors.Is(err, service.ErrSecretMismatch),
		errors.Is(err, service.ErrIgnoredStatus):
		log.Printf("webhook %s: discarded: %v", deliveryID, err)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})

	default:
		// Finalization failed mid-sequence; earlier mutations stand and
		// there is no compensation. Acknowledge anyway.
		log.Printf("webhook %s: finalization error: %v", deliveryID, err)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
