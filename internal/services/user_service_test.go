package services

import (
	"testing"
	"time"

	"budgetmate/internal/models"
	"budgetmate/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register("Priya", "priya@example.com", "secret123", decimal.NewFromInt(60000))
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Role != models.UserRoleUser {
			t.Errorf("expected user role, got %s", user.Role)
		}
		if user.PasswordHash == "secret123" {
			t.Error("expected password to be hashed")
		}
	})

	t.Run("lowercases_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register("Priya", "Priya@Example.COM", "secret123", decimal.Zero)
		testutil.AssertNoError(t, err)

		if user.Email != "priya@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("Priya", "priya@example.com", "secret123", decimal.Zero)
		testutil.AssertNoError(t, err)

		_, err = svc.Register("Imposter", "PRIYA@example.com", "other456", decimal.Zero)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("negative_salary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("Priya", "priya@example.com", "secret123", decimal.NewFromInt(-1))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("", "priya@example.com", "secret123", decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		found, err := svc.Authenticate(user.Email, "password123")
		testutil.AssertNoError(t, err)

		if found.ID != user.ID {
			t.Errorf("expected user %d, got %d", user.ID, found.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Authenticate(user.Email, "wrong-password")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		// Indistinguishable from a wrong password.
		_, err := svc.Authenticate("ghost@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		name := "Renamed"
		salary := decimal.NewFromInt(70000)
		updated, err := svc.UpdateUser(user.ID, UserUpdate{Name: &name, Salary: &salary})
		testutil.AssertNoError(t, err)

		if updated.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %s", updated.Name)
		}
		testutil.AssertDecimalEqual(t, salary, updated.Salary, "salary")
		if updated.Email != user.Email {
			t.Errorf("expected email untouched, got %s", updated.Email)
		}
	})

	t.Run("email_conflict", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateUser(user2.ID, UserUpdate{Email: &user1.Email})
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("password_change_rehashes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		password := "new-password"
		_, err := svc.UpdateUser(user.ID, UserUpdate{Password: &password})
		testutil.AssertNoError(t, err)

		_, err = svc.Authenticate(user.Email, "new-password")
		testutil.AssertNoError(t, err)
		_, err = svc.Authenticate(user.Email, "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		name := "Nope"
		_, err := svc.UpdateUser(9999, UserUpdate{Name: &name})
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteUser(user.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.GetUserByID(user.ID)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		err := svc.DeleteUser(9999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestPasswordReset(t *testing.T) {
	t.Run("issue_and_consume", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		token, err := svc.IssuePasswordReset(user.Email)
		testutil.AssertNoError(t, err)
		if len(token) != 64 {
			t.Errorf("expected 64-char hex token, got %d chars", len(token))
		}

		err = svc.ResetPassword(token, "brand-new-pass")
		testutil.AssertNoError(t, err)

		_, err = svc.Authenticate(user.Email, "brand-new-pass")
		testutil.AssertNoError(t, err)
	})

	t.Run("token_is_single_use", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		token, err := svc.IssuePasswordReset(user.Email)
		testutil.AssertNoError(t, err)

		err = svc.ResetPassword(token, "first-pass")
		testutil.AssertNoError(t, err)

		err = svc.ResetPassword(token, "second-pass")
		testutil.AssertAppError(t, err, "RESET_TOKEN_INVALID")
	})

	t.Run("new_token_invalidates_previous", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.IssuePasswordReset(user.Email)
		testutil.AssertNoError(t, err)
		second, err := svc.IssuePasswordReset(user.Email)
		testutil.AssertNoError(t, err)

		err = svc.ResetPassword(first, "stale-pass")
		testutil.AssertAppError(t, err, "RESET_TOKEN_INVALID")

		err = svc.ResetPassword(second, "fresh-pass")
		testutil.AssertNoError(t, err)
	})

	t.Run("expired_token_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		token, err := svc.IssuePasswordReset(user.Email)
		testutil.AssertNoError(t, err)

		// Backdate the expiry past the 30-minute window.
		expired := time.Now().Add(-time.Minute)
		if err := db.Model(&models.PasswordResetToken{}).
			Where("token = ?", token).
			Update("expires_at", expired).Error; err != nil {
			t.Fatalf("failed to backdate token: %v", err)
		}

		err = svc.ResetPassword(token, "too-late")
		testutil.AssertAppError(t, err, "RESET_TOKEN_INVALID")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.IssuePasswordReset("ghost@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("garbage_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		err := svc.ResetPassword("not-a-real-token", "whatever")
		testutil.AssertAppError(t, err, "RESET_TOKEN_INVALID")
	})
}
