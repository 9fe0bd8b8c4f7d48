package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vellalasercare/storefront-gateway/config"
	"github.com/vellalasercare/storefront-gateway/internal/app/controller"
	"github.com/vellalasercare/storefront-gateway/internal/app/repository"
	"github.com/vellalasercare/storefront-gateway/internal/app/service"
	"github.com/vellalasercare/storefront-gateway/internal/db"
	"github.com/vellalasercare/storefront-gateway/internal/middleware"
	"github.com/vellalasercare/storefront-gateway/internal/router"
	"github.com/vellalasercare/storefront-gateway/internal/scheduler"
	ws "github.com/vellalasercare/storefront-gateway/internal/websocket"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
	redisutil "github.com/vellalasercare/storefront-gateway/pkg/redis"
	"github.com/vellalasercare/storefront-gateway/pkg/storefront"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.LogLevel(),
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting storefront gateway", map[string]interface{}{
		"environment":   cfg.Server.Environment,
		"port":          cfg.Server.Port,
		"log_level":     cfg.LogLevel(),
		"session_store": cfg.Session.Store,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Session storage
	var sessionRepo repository.SessionRepository
	switch cfg.Session.Store {
	case "redis":
		if err := redisutil.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redisutil.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		sessionRepo = repository.NewRedisSessionRepository(redisutil.GetClient(), cfg.Session.TTL)
	default:
		sessionRepo = repository.NewMemorySessionRepository()
	}
	submissionRepo := repository.NewSubmissionRepository(db.GetDB())

	// Cart event hub
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Storefront API
	storefrontClient, err := storefront.NewClient(storefront.Config{
		BaseURL: cfg.Storefront.BaseURL,
		Timeout: cfg.Storefront.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create storefront client", err)
	}

	// Initialize services
	sessions := service.NewSessionStore(sessionRepo, hub)
	lookups := service.NewLookups(storefrontClient, cfg.Storefront.ShippingCacheTTL)
	cartService := service.NewCartService(sessions)
	checkoutService := service.NewCheckoutService(sessions, lookups)
	orderService := service.NewOrderService(sessions, lookups, storefrontClient, submissionRepo)

	// Initialize controllers
	cartController := controller.NewCartController(cartService, checkoutService)
	cartStreamController := controller.NewCartStreamController(cartService, hub, cfg.CORS.AllowedOrigins)
	checkoutController := controller.NewCheckoutController(checkoutService, orderService)
	orderController := controller.NewOrderController(orderService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		cartController,
		cartStreamController,
		checkoutController,
		orderController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Idle session cleanup
	sweeper := scheduler.NewSessionSweeper(sessions, cfg.Session.SweepSpec, cfg.Session.TTL)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start session sweeper", err)
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
