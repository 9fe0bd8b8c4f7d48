package router

import (
	"github.com/gin-gonic/gin"
	"github.com/vellalasercare/storefront-gateway/config"
	"github.com/vellalasercare/storefront-gateway/internal/app/controller"
	"github.com/vellalasercare/storefront-gateway/internal/middleware"
)

type Router struct {
	cartController       *controller.CartController
	cartStreamController *controller.CartStreamController
	checkoutController   *controller.CheckoutController
	orderController      *controller.OrderController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	cartController *controller.CartController,
	cartStreamController *controller.CartStreamController,
	checkoutController *controller.CheckoutController,
	orderController *controller.OrderController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		cartController:       cartController,
		cartStreamController: cartStreamController,
		checkoutController:   checkoutController,
		orderController:      orderController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Storefront gateway is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		cart := v1.Group("/cart")
		cart.Use(middleware.SessionMiddleware(), r.authMiddleware.OptionalAuthenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ResetCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:index", r.cartController.UpdateQuantity)
			cart.DELETE("/items/:index", r.cartController.RemoveItem)
			cart.PATCH("/fields", r.cartController.UpdateField)
			cart.POST("/toggle", r.cartController.ToggleOpen)
			cart.POST("/as-profile", r.cartController.ToggleAsProfile)
			cart.GET("/export", r.cartController.ExportQuote)
			cart.GET("/ws", r.cartStreamController.Stream)
		}

		checkout := v1.Group("/checkout")
		checkout.Use(middleware.SessionMiddleware(), r.authMiddleware.OptionalAuthenticate())
		{
			checkout.GET("", r.checkoutController.GetCheckout)
			checkout.GET("/quote", r.checkoutController.GetQuote)
			checkout.POST("/transitions", r.checkoutController.Transition)
			checkout.GET("/cities", r.checkoutController.GetCities)
			checkout.POST("/orders", r.checkoutController.SubmitOrder)
			checkout.GET("/submissions", r.orderController.GetSessionSubmissions)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("/submissions", r.orderController.GetSubmissions)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, "+middleware.SessionHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", middleware.SessionHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
