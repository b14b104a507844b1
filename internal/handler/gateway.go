package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vpay/internal/config"
)

// GatewayHandler exposes the gateway descriptor shown at checkout.
type GatewayHandler struct {
	cfg config.VPayConfig
}

// NewGatewayHandler creates a new GatewayHandler.
func NewGatewayHandler(cfg config.VPayConfig) *GatewayHandler {
	return &GatewayHandler{cfg: cfg}
}

// GatewayResponse describes the configured payment method.
type GatewayResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	NeedsSetup  bool   `json:"needs_setup"`
}

// Get handles GET /v1/gateway
func (h *GatewayHandler) Get(c *gin.Context) {
	respondJSON(c, http.StatusOK, GatewayResponse{
		Title:       h.cfg.Title,
		Description: h.cfg.Description,
		Enabled:     h.cfg.Enabled,
		NeedsSetup:  h.cfg.PublicKey == "",
	})
}
