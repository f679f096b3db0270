package main

import (
	"fmt"
	"net/http"
	"os"

	"bizledger/internal/config"
	"bizledger/internal/database"
	"bizledger/internal/handlers"
	"bizledger/internal/logger"
	"bizledger/internal/middleware"
	"bizledger/internal/services"
	"bizledger/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "bizledger/internal/docs" // Import swagger docs
)

// @title           BizLedger API
// @version         1.0
// @description     BizLedger is a small-business bookkeeping backend covering the ledger, inventory, suppliers, receivables, and financial reporting.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom validation tags
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	supplierService := services.NewSupplierService(db)
	productService := services.NewProductService(db)
	ledgerService := services.NewLedgerService(db)
	receivableService := services.NewReceivableService(db)
	reportService := services.NewReportService(db, ledgerService, receivableService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	productHandler := handlers.NewProductHandler(productService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	receivableHandler := handlers.NewReceivableHandler(receivableService)
	reportHandler := handlers.NewReportHandler(reportService)
	exportHandler := handlers.NewExportHandler(ledgerService, reportService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// User administration
	users := protected.Group("/users")
	users.Use(middleware.RequireAdmin())
	users.POST("", authHandler.CreateUser)
	users.GET("", authHandler.ListUsers)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.POST("", middleware.RequireEditor(), transactionHandler.CreateTransaction)
	transactions.PUT("/:id", middleware.RequireEditor(), transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", middleware.RequireEditor(), transactionHandler.DeleteTransaction)

	// Category routes
	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.POST("", middleware.RequireEditor(), categoryHandler.CreateCategory)
	categories.PUT("/:id", middleware.RequireEditor(), categoryHandler.UpdateCategory)
	categories.DELETE("/:id", middleware.RequireEditor(), categoryHandler.DeleteCategory)

	// Supplier routes
	suppliers := protected.Group("/suppliers")
	suppliers.GET("", supplierHandler.ListSuppliers)
	suppliers.GET("/:id", supplierHandler.GetSupplierByID)
	suppliers.POST("", middleware.RequireEditor(), supplierHandler.CreateSupplier)
	suppliers.PUT("/:id", middleware.RequireEditor(), supplierHandler.UpdateSupplier)
	suppliers.DELETE("/:id", middleware.RequireEditor(), supplierHandler.DeleteSupplier)
	suppliers.POST("/:id/images", middleware.RequireEditor(), supplierHandler.AddSupplierImage)
	suppliers.DELETE("/:id/images/:image_id", middleware.RequireEditor(), supplierHandler.RemoveSupplierImage)

	// Product routes
	products := protected.Group("/products")
	products.GET("", productHandler.ListProducts)
	products.GET("/:id", productHandler.GetProductByID)
	products.GET("/:id/movements", productHandler.ListStockMovements)
	products.POST("", middleware.RequireEditor(), productHandler.CreateProduct)
	products.PUT("/:id", middleware.RequireEditor(), productHandler.UpdateProduct)
	products.DELETE("/:id", middleware.RequireEditor(), productHandler.DeleteProduct)
	products.POST("/:id/stock", middleware.RequireEditor(), productHandler.ApplyStockOp)

	// Receivable routes
	receivables := protected.Group("/receivables")
	receivables.GET("", receivableHandler.ListReceivables)
	receivables.GET("/stats", receivableHandler.GetReceivableStats)
	receivables.GET("/:id", receivableHandler.GetReceivableByID)
	receivables.POST("", middleware.RequireEditor(), receivableHandler.CreateReceivable)
	receivables.POST("/:id/receipts", middleware.RequireEditor(), receivableHandler.RecordReceipt)
	receivables.DELETE("/:id", middleware.RequireEditor(), receivableHandler.DeleteReceivable)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/dashboard", reportHandler.GetDashboard)
	reports.GET("/trends/monthly", reportHandler.GetMonthlyTrend)
	reports.GET("/trends/yearly", reportHandler.GetYearlyTrend)
	reports.GET("/trends/daily", reportHandler.GetDailyTrend)
	reports.GET("/categories", reportHandler.GetCategoryBreakdown)
	reports.GET("/cashflow", reportHandler.GetCashFlow)
	reports.GET("/health", reportHandler.GetFinancialHealth)

	// Export routes
	exports := protected.Group("/exports")
	exports.GET("/transactions", exportHandler.ExportTransactions)
	exports.GET("/trends/monthly", exportHandler.ExportMonthlyTrend)

	log.Infof("Starting BizLedger backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
