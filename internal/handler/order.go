package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vpay/internal/domain"
	"vpay/internal/repository"
	"vpay/internal/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderRepo repository.OrderRepository
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderRepo repository.OrderRepository) *OrderHandler {
	return &OrderHandler{orderRepo: orderRepo}
}

// CreateOrderRequest is the HTTP request body for creating an order.
type CreateOrderRequest struct {
	Total        float64 `json:"total"`
	Currency     string  `json:"currency"`
	BillingEmail string  `json:"billing_email"`
}

// OrderResponse is the HTTP response for order data.
type OrderResponse struct {
	ID           string  `json:"id"`
	Total        float64 `json:"total"`
	Currency     string  `json:"currency"`
	BillingEmail string  `json:"billing_email"`
	Status       string  `json:"status"`
	StockReduced bool    `json:"stock_reduced"`
}

// Create handles POST /v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Total <= 0 {
		respondError(c, service.ErrInvalidOrderTotal)
		return
	}
	if req.Currency == "" {
		respondError(c, service.ErrInvalidCurrency)
		return
	}
	if req.BillingEmail == "" {
		respondError(c, service.ErrInvalidBillingEmail)
		return
	}

	order := &domain.Order{
		ID:           uuid.New().String(),
		Total:        req.Total,
		Currency:     req.Currency,
		BillingEmail: req.BillingEmail,
		Status:       domain.OrderStatusPending,
		CreatedAt:    time.Now(),
	}

	if err := h.orderRepo.Create(c.Request.Context(), order); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// GetAll handles GET /v1/orders
func (h *OrderHandler) GetAll(c *gin.Context) {
	orders, err := h.orderRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}

	respondJSON(c, http.StatusOK, responses)
}

func toOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:           order.ID,
		Total:        order.Total,
		Currency:     order.Currency,
		BillingEmail: order.BillingEmail,
		Status:       string(order.Status),
		StockReduced: order.StockReduced,
	}
}
