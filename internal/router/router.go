// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kartify/storefront-backend/internal/config"
	"github.com/kartify/storefront-backend/internal/handlers"
	"github.com/kartify/storefront-backend/internal/middleware"
	"github.com/kartify/storefront-backend/internal/services"
	"github.com/kartify/storefront-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	notificationService := services.NewNotificationService(db, cfg)
	ranker := services.NewSearchRanker(cfg.Search)
	catalogService := services.NewCatalogService(db, ranker)
	cartStores, err := services.NewFileStoreProvider(cfg.Cart.SlotDir, cfg.Cart.SlotKey)
	if err != nil {
		return nil, err
	}
	cartService := services.NewCartService(cartStores, catalogService)
	orderService := services.NewOrderService(services.NewOrderRepository(db), cartService, notificationService, cfg.Shipping)
	paymentService := services.NewPaymentService(db, cfg)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService, storageService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService, notificationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(middleware.OptionalAuth())
	{
		// Catalog routes
		v1.GET("/categories", catalogHandler.GetCategories)
		v1.GET("/products", catalogHandler.GetProducts)
		v1.GET("/products/:id", catalogHandler.GetProduct)
		v1.POST("/products/:id/images", middleware.UploadRateLimit(), catalogHandler.UploadProductImage)

		// Session-scoped routes
		session := v1.Group("")
		session.Use(middleware.CartSession(cfg.JWT.SessionTTL))
		{
			cart := session.Group("/cart")
			{
				cart.GET("", cartHandler.GetCart)
				cart.DELETE("", cartHandler.ClearCart)
				cart.POST("/items", cartHandler.AddItem)
				cart.PUT("/items/:itemId", cartHandler.UpdateItem)
				cart.DELETE("/items/:itemId", cartHandler.DeleteItem)
			}

			session.POST("/checkout", middleware.CheckoutRateLimit(), orderHandler.Checkout)

			orders := session.Group("/orders")
			{
				orders.GET("", orderHandler.GetOrders)
				orders.GET("/:id", orderHandler.GetOrder)
				orders.POST("/:id/notify", orderHandler.NotifyOrder)
			}
		}

		v1.POST("/payments/confirm", paymentHandler.ConfirmPayment)
	}

	return r, nil
}
