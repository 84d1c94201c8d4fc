package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/printforge/printforge-api/config"
	"github.com/printforge/printforge-api/controllers"
	"github.com/printforge/printforge-api/middleware"
	"github.com/printforge/printforge-api/models"
	"github.com/printforge/printforge-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting PrintForge API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.Material{}, &models.QuoteRecord{}, &models.PrintOrder{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Seed the material catalog
	if err := models.SeedMaterials(db); err != nil {
		log.Fatalf("Failed to seed materials: %v", err)
	}

	// Initialize external service clients
	services.InitQuoteService(cfg.QuoteServiceURL)
	services.InitRateService(cfg.RateServiceURL)
	services.InitCheckoutService(cfg.CheckoutServiceURL)
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitStorageService(); err != nil {
			log.Printf("Model storage disabled: %v", err)
		}
	}

	// Initialize Gin router
	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures middleware and the API v1 route group
func setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(middleware.BodyLimit(middleware.MaxRequestBodySize))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Material catalog
		v1.GET("/materials", controllers.GetMaterials)
		v1.GET("/materials/:id", controllers.GetMaterial)

		// Stateless model verification and pricing
		v1.POST("/verify-file", controllers.VerifyFile)
		v1.POST("/quote", controllers.CreateQuote)
		v1.POST("/rates", controllers.GetRates)
		v1.POST("/checkout", controllers.Checkout)

		// Order-intake sessions
		v1.POST("/sessions", controllers.CreateSession)
		v1.GET("/sessions/:id", controllers.GetSession)
		v1.DELETE("/sessions/:id", controllers.DeleteSession)
		v1.POST("/sessions/:id/model", controllers.UploadSessionModel)
		v1.PATCH("/sessions/:id/selections", controllers.UpdateSessionSelections)
		v1.POST("/sessions/:id/quote", controllers.RequestSessionQuote)
		v1.POST("/sessions/:id/shipping", controllers.SelectSessionShipping)
		v1.POST("/sessions/:id/back", controllers.SessionBack)
		v1.POST("/sessions/:id/checkout", controllers.CheckoutSession)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "PrintForge API is running",
	})
}
