package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"vpay/internal/app"
	"vpay/internal/config"
	"vpay/internal/handler"
	internalRedis "vpay/internal/redis"
	"vpay/internal/repository/postgres"
	"vpay/internal/service"
	"vpay/internal/vpay"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	if cfg.VPay.SecretKey == "" || cfg.VPay.PublicKey == "" {
		log.Println("VPAY keys not configured; gateway needs setup and will decline checkouts")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize stores.
	cartStore := internalRedis.NewCartStore(redisClient)
	orderRepo := postgres.NewOrderRepository(db)

	// Initialize the provider client.
	vpayClient := vpay.NewClient(cfg.VPay.BaseURL,
		vpay.WithSessionTimeout(cfg.VPay.SessionTimeout),
		vpay.WithRateTimeout(cfg.VPay.RateTimeout),
	)

	// Initialize services.
	checkoutService := service.NewCheckoutService(orderRepo, vpayClient, vpayClient, cfg.VPay, cfg.Shop)
	webhookService := service.NewWebhookService(orderRepo, cartStore, cfg.VPay.SecretKey)

	// Initialize handlers.
	orderHandler := handler.NewOrderHandler(orderRepo)
	cartHandler := handler.NewCartHandler(cartStore)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	webhookHandler := handler.NewWebhookHandler(webhookService)
	gatewayHandler := handler.NewGatewayHandler(cfg.VPay)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		OrderHandler:    orderHandler,
		CartHandler:     cartHandler,
		CheckoutHandler: checkoutHandler,
		WebhookHandler:  webhookHandler,
		GatewayHandler:  gatewayHandler,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
