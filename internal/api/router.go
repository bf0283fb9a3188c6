package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/api/handlers"
	"github.com/medcart/pharmacy-api/internal/api/middleware"
	"github.com/medcart/pharmacy-api/internal/checkout"
	"github.com/medcart/pharmacy-api/internal/config"
	"github.com/medcart/pharmacy-api/internal/repository"
	"github.com/medcart/pharmacy-api/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// One flow manager for all checkout sessions; the order service is the
	// flow's order-placement collaborator so checkout and direct order
	// creation share a single pricing path.
	carts := service.NewCartService(repos, logger)
	addresses := service.NewAddressService(repos, logger)
	orders := service.NewOrderService(repos, logger)
	flows := checkout.NewManager(carts, addresses, orders, logger)

	api := router.Group("/api")
	{
		// Public routes
		api.POST("/auth/register", handlers.HandleRegister(cfg, repos, logger))
		api.POST("/auth/login", handlers.HandleLogin(cfg, repos, logger))
		api.GET("/products", handlers.HandleListProducts(repos, logger))
		api.GET("/products/:id", handlers.HandleGetProduct(repos, logger))
		api.GET("/categories", handlers.HandleListCategories(repos, logger))

		// Customer routes (require authentication)
		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(cfg.JWT.Secret, logger))
		{
			authed.GET("/auth/me", handlers.HandleGetProfile(repos, logger))

			authed.GET("/cart", handlers.HandleGetCart(repos, logger))
			authed.POST("/cart/items", handlers.HandleAddCartItem(repos, logger))
			authed.PUT("/cart/items/:itemId", handlers.HandleUpdateCartItem(repos, logger))
			authed.DELETE("/cart/items/:itemId", handlers.HandleRemoveCartItem(repos, logger))
			authed.DELETE("/cart/clear", handlers.HandleClearCart(repos, logger))

			authed.GET("/addresses", handlers.HandleListAddresses(repos, logger))
			authed.POST("/addresses", handlers.HandleCreateAddress(repos, logger))
			authed.PUT("/addresses/:id", handlers.HandleUpdateAddress(repos, logger))
			authed.DELETE("/addresses/:id", handlers.HandleDeleteAddress(repos, logger))

			authed.POST("/checkout", handlers.HandleStartCheckout(flows, logger))
			authed.GET("/checkout", handlers.HandleCheckoutState(flows, logger))
			authed.POST("/checkout/shipping", handlers.HandleSelectShipping(flows, logger))
			authed.POST("/checkout/payment", handlers.HandleSelectPayment(flows, logger))
			authed.POST("/checkout/place-order", handlers.HandlePlaceOrder(flows, logger))
			authed.POST("/checkout/back", handlers.HandleCheckoutBack(flows, logger))

			authed.POST("/orders", handlers.HandleCreateOrder(repos, logger))
			authed.GET("/orders", handlers.HandleListOrders(repos, logger))
			authed.GET("/orders/:id", handlers.HandleGetOrder(repos, logger))
		}

		// Admin routes
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(cfg.JWT.Secret, logger))
		adminRoutes.Use(middleware.RequireAdmin())
		{
			adminRoutes.GET("/orders", handlers.HandleAdminListOrders(repos, logger))
			adminRoutes.PUT("/orders/:id/status", handlers.HandleAdminUpdateOrderStatus(repos, logger))
			adminRoutes.POST("/products", handlers.HandleAdminCreateProduct(repos, logger))
			adminRoutes.PUT("/products/:id", handlers.HandleAdminUpdateProduct(repos, logger))
			adminRoutes.DELETE("/products/:id", handlers.HandleAdminDeleteProduct(repos, logger))
			adminRoutes.POST("/categories", handlers.HandleAdminCreateCategory(repos, logger))
			adminRoutes.GET("/users", handlers.HandleAdminListUsers(repos, logger))
			adminRoutes.PUT("/users/:id/active", handlers.HandleAdminSetUserActive(repos, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
