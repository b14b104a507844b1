package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"vpay/internal/handler"
	"vpay/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	OrderHandler    *handler.OrderHandler
	CartHandler     *handler.CartHandler
	CheckoutHandler *handler.CheckoutHandler
	WebhookHandler  *handler.WebhookHandler
	GatewayHandler  *handler.GatewayHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Provider notification endpoint. Registered outside /v1 and outside the
	// idempotency middleware: the provider authenticates with the shared
	// secret only, and duplicate deliveries must reach the verifier.
	router.POST("/webhook", deps.WebhookHandler.Handle)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	{
		v1.GET("/gateway", deps.GatewayHandler.Get)

		// Order routes.
		orders := v1.Group("/orders")
		{
			orders.POST("", deps.OrderHandler.Create)
			orders.GET("", deps.OrderHandler.GetAll)
			orders.GET("/:id", deps.OrderHandler.Get)
			orders.POST("/:id/checkout", deps.CheckoutHandler.Initiate)
		}

		// Cart routes.
		carts := v1.Group("/carts")
		{
			carts.GET("/:customer", deps.CartHandler.GetItems)
			carts.POST("/:customer/items", deps.CartHandler.AddItem)
		}
	}

	return router
}
