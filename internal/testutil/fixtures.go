package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"bizledger/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.UserRoleAdmin)
}

// CreateTestUserWithRole creates a user with the given role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@test.com", n),
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:  fmt.Sprintf("Test Category %d", nextID()),
		Type:  categoryType,
		Color: "#4E79A7",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestSupplier creates an active supplier.
func CreateTestSupplier(t *testing.T, db *gorm.DB) *models.Supplier {
	t.Helper()

	supplier := &models.Supplier{
		Name:     fmt.Sprintf("Test Supplier %d", nextID()),
		IsActive: true,
	}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("failed to create test supplier: %v", err)
	}
	return supplier
}

// CreateTestProduct creates an active product with the given stock level.
func CreateTestProduct(t *testing.T, db *gorm.DB, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:         fmt.Sprintf("Test Product %d", nextID()),
		CostPrice:    decimal.NewFromInt(10),
		SellingPrice: decimal.NewFromInt(15),
		Unit:         "pcs",
		Stock:        stock,
		IsActive:     true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

// CreateTestTransaction creates a transaction of the given type, amount, and date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID uint, txType models.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestReceivable creates a pending receivable with the given amount and due date.
func CreateTestReceivable(t *testing.T, db *gorm.DB, userID uint, amount string, dueDate time.Time) *models.Receivable {
	t.Helper()

	n := nextID()
	receivable := &models.Receivable{
		ReceivableNumber: fmt.Sprintf("RCV-TEST%04d", n),
		Title:            fmt.Sprintf("Test Receivable %d", n),
		Amount:           decimal.RequireFromString(amount),
		ReceivedAmount:   decimal.Zero,
		Status:           models.ReceivableStatusPending,
		InvoiceDate:      dueDate.AddDate(0, 0, -models.DefaultPaymentTerms),
		DueDate:          dueDate,
		PaymentTerms:     models.DefaultPaymentTerms,
		UserID:           userID,
	}
	if err := db.Create(receivable).Error; err != nil {
		t.Fatalf("failed to create test receivable: %v", err)
	}
	return receivable
}
