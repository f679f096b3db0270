package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bizledger/internal/handlers"
	"bizledger/internal/logger"
	"bizledger/internal/middleware"
	"bizledger/internal/models"
	"bizledger/internal/services"
	"bizledger/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Users  services.UserServicer
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Supplier{},
		&models.SupplierImage{},
		&models.Product{},
		&models.StockMovement{},
		&models.Transaction{},
		&models.Receivable{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	supplierService := services.NewSupplierService(db)
	productService := services.NewProductService(db)
	ledgerService := services.NewLedgerService(db)
	receivableService := services.NewReceivableService(db)
	reportService := services.NewReportService(db, ledgerService, receivableService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	productHandler := handlers.NewProductHandler(productService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	receivableHandler := handlers.NewReceivableHandler(receivableService)
	reportHandler := handlers.NewReportHandler(reportService)
	exportHandler := handlers.NewExportHandler(ledgerService, reportService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	users := protected.Group("/users")
	users.Use(middleware.RequireAdmin())
	users.POST("", authHandler.CreateUser)
	users.GET("", authHandler.ListUsers)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.POST("", middleware.RequireEditor(), transactionHandler.CreateTransaction)
	transactions.PUT("/:id", middleware.RequireEditor(), transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", middleware.RequireEditor(), transactionHandler.DeleteTransaction)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.POST("", middleware.RequireEditor(), categoryHandler.CreateCategory)
	categories.PUT("/:id", middleware.RequireEditor(), categoryHandler.UpdateCategory)
	categories.DELETE("/:id", middleware.RequireEditor(), categoryHandler.DeleteCategory)

	suppliers := protected.Group("/suppliers")
	suppliers.GET("", supplierHandler.ListSuppliers)
	suppliers.GET("/:id", supplierHandler.GetSupplierByID)
	suppliers.POST("", middleware.RequireEditor(), supplierHandler.CreateSupplier)
	suppliers.PUT("/:id", middleware.RequireEditor(), supplierHandler.UpdateSupplier)
	suppliers.DELETE("/:id", middleware.RequireEditor(), supplierHandler.DeleteSupplier)
	suppliers.POST("/:id/images", middleware.RequireEditor(), supplierHandler.AddSupplierImage)
	suppliers.DELETE("/:id/images/:image_id", middleware.RequireEditor(), supplierHandler.RemoveSupplierImage)

	products := protected.Group("/products")
	products.GET("", productHandler.ListProducts)
	products.GET("/:id", productHandler.GetProductByID)
	products.GET("/:id/movements", productHandler.ListStockMovements)
	products.POST("", middleware.RequireEditor(), productHandler.CreateProduct)
	products.PUT("/:id", middleware.RequireEditor(), productHandler.UpdateProduct)
	products.DELETE("/:id", middleware.RequireEditor(), productHandler.DeleteProduct)
	products.POST("/:id/stock", middleware.RequireEditor(), productHandler.ApplyStockOp)

	receivables := protected.Group("/receivables")
	receivables.GET("", receivableHandler.ListReceivables)
	receivables.GET("/stats", receivableHandler.GetReceivableStats)
	receivables.GET("/:id", receivableHandler.GetReceivableByID)
	receivables.POST("", middleware.RequireEditor(), receivableHandler.CreateReceivable)
	receivables.POST("/:id/receipts", middleware.RequireEditor(), receivableHandler.RecordReceipt)
	receivables.DELETE("/:id", middleware.RequireEditor(), receivableHandler.DeleteReceivable)

	reports := protected.Group("/reports")
	reports.GET("/dashboard", reportHandler.GetDashboard)
	reports.GET("/trends/monthly", reportHandler.GetMonthlyTrend)
	reports.GET("/trends/yearly", reportHandler.GetYearlyTrend)
	reports.GET("/trends/daily", reportHandler.GetDailyTrend)
	reports.GET("/categories", reportHandler.GetCategoryBreakdown)
	reports.GET("/cashflow", reportHandler.GetCashFlow)
	reports.GET("/health", reportHandler.GetFinancialHealth)

	exports := protected.Group("/exports")
	exports.GET("/transactions", exportHandler.ExportTransactions)
	exports.GET("/trends/monthly", exportHandler.ExportMonthlyTrend)

	return &testApp{DB: db, Users: userService, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// seedUser creates a user directly through the service layer and returns a
// login token. There is no self-service registration; an admin provisions
// accounts.
func (app *testApp) seedUser(t *testing.T, username string, role models.UserRole) string {
	t.Helper()

	_, err := app.Users.CreateUser(username, username+"@test.com", "password123", role)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	body := fmt.Sprintf(`{"username":%q,"password":"password123"}`, username)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}
