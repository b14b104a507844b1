package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vpay/internal/domain"
	"vpay/internal/redis"
	"vpay/internal/service"
)

// CartHandler handles HTTP requests for active carts.
type CartHandler struct {
	carts redis.CartStoreInterface
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts redis.CartStoreInterface) *CartHandler {
	return &CartHandler{carts: carts}
}

// AddItemRequest is the HTTP request body for adding a cart item.
type AddItemRequest struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// AddItem handles POST /v1/carts/:customer/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	customer := c.Param("customer")
	if customer == "" {
		respondError(c, service.ErrInvalidBillingEmail)
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "product_id and positive quantity are required"})
		return
	}

	item := domain.CartItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	}

	if err := h.carts.AddItem(c.Request.Context(), customer, item); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, item)
}

// GetItems handles GET /v1/carts/:customer
func (h *CartHandler) GetItems(c *gin.Context) {
	items, err := h.carts.GetItems(c.Request.Context(), c.Param("customer"))
	if err != nil {
		respondError(c, err)
		return
	}

	if items == nil {
		items = []domain.CartItem{}
	}
	respondJSON(c, http.StatusOK, items)
}
