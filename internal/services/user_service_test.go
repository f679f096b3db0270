package services

import (
	"testing"

	"bizledger/internal/models"
	"bizledger/internal/pagination"
	"bizledger/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("creates_user_with_hashed_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice", "Alice@Example.com", "secret123", models.UserRoleManager)
		testutil.AssertNoError(t, err)

		if user.Password == "secret123" {
			t.Error("password must not be stored in plain text")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Role != models.UserRoleManager {
			t.Errorf("expected manager role, got %s", user.Role)
		}
	})

	t.Run("defaults_to_employee_role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("bob", "bob@example.com", "secret123", "")
		testutil.AssertNoError(t, err)

		if user.Role != models.UserRoleEmployee {
			t.Errorf("expected employee role, got %s", user.Role)
		}
		if user.Role.CanEdit() {
			t.Error("employees must not have edit rights")
		}
	})

	t.Run("rejects_duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("carol", "carol@example.com", "secret123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("carol", "other@example.com", "secret123", "")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("valid_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created, err := svc.CreateUser("dave", "dave@example.com", "secret123", "")
		testutil.AssertNoError(t, err)

		user, err := svc.AttemptLogin("dave", "secret123")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("erin", "erin@example.com", "secret123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("erin", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody", "secret123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("inactive_user_cannot_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("frank", "frank@example.com", "secret123", "")
		testutil.AssertNoError(t, err)

		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate user: %v", err)
		}

		_, err = svc.AttemptLogin("frank", "secret123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestListUsers(t *testing.T) {
	t.Run("paginates_by_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		for i := 0; i < 3; i++ {
			testutil.CreateTestUser(t, db)
		}

		resp, err := svc.ListUsers(pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)

		if resp.TotalItems != 3 {
			t.Errorf("expected 3 users, got %d", resp.TotalItems)
		}
		if len(resp.Data) != 2 {
			t.Errorf("expected 2 users on page 1, got %d", len(resp.Data))
		}
	})
}
