package services

import (
	"testing"

	"bizledger/internal/models"
	"bizledger/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("creates_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		category, err := svc.CreateCategory("Rent", models.CategoryTypeExpense, "#E15759")
		testutil.AssertNoError(t, err)

		if category.ID == 0 {
			t.Fatal("expected non-zero category ID")
		}
		if category.Type != models.CategoryTypeExpense {
			t.Errorf("expected expense type, got %s", category.Type)
		}
	})

	t.Run("rejects_duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("Sales", models.CategoryTypeIncome, "#4E79A7")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory("Sales", models.CategoryTypeIncome, "#4E79A7")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_unknown_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("Misc", "transfer", "#4E79A7")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("updates_provided_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		updated, err := svc.UpdateCategory(category.ID, "Renamed", "", "#59A14F")
		testutil.AssertNoError(t, err)

		if updated.Name != "Renamed" {
			t.Errorf("expected renamed category, got %s", updated.Name)
		}
		if updated.Type != models.CategoryTypeExpense {
			t.Errorf("type should be unchanged, got %s", updated.Type)
		}
		if updated.Color != "#59A14F" {
			t.Errorf("expected updated color, got %s", updated.Color)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.UpdateCategory(9999, "Missing", "", "")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("deletes_unused_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)

		testutil.AssertNoError(t, svc.DeleteCategory(category.ID))

		_, err := svc.GetCategoryByID(category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("blocked_while_referenced", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		tx := testutil.CreateTestTransaction(t, db, user.ID, category.ID, models.TransactionTypeExpense, "10", date(2024, 1, 5))

		err := svc.DeleteCategory(category.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")

		// Both rows must be left unchanged.
		if _, err := svc.GetCategoryByID(category.ID); err != nil {
			t.Errorf("category should still exist: %v", err)
		}
		var count int64
		if err := db.Model(&models.Transaction{}).Where("id = ?", tx.ID).Count(&count).Error; err != nil || count != 1 {
			t.Errorf("transaction should still exist (count=%d, err=%v)", count, err)
		}
	})
}
