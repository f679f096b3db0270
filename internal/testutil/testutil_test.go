package testutil_test

import (
	"testing"
	"time"

	"bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "categories", "suppliers", "supplier_images", "products", "stock_movements", "transactions", "receivables"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}
	if user.Role != models.UserRoleAdmin {
		t.Errorf("expected admin role, got %s", user.Role)
	}

	category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
	if category.Type != models.CategoryTypeExpense {
		t.Errorf("expected expense category, got %s", category.Type)
	}

	supplier := testutil.CreateTestSupplier(t, db)
	if !supplier.IsActive {
		t.Error("expected supplier to be active")
	}

	product := testutil.CreateTestProduct(t, db, 25)
	if product.Stock != 25 {
		t.Errorf("expected stock 25, got %d", product.Stock)
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, category.ID, models.TransactionTypeIncome, "100.50", time.Now())
	testutil.AssertDecimalEqual(t, tx.Amount, "100.50")

	receivable := testutil.CreateTestReceivable(t, db, user.ID, "1000", time.Now().AddDate(0, 0, 30))
	if receivable.Status != models.ReceivableStatusPending {
		t.Errorf("expected pending status, got %s", receivable.Status)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrTransactionNotFound, "custom message")
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
