package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"budgetmate/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:         fmt.Sprintf("Test User %d", nextID()),
		Email:        email,
		PasswordHash: string(hash),
		Salary:       decimal.NewFromInt(50000),
		Role:         models.UserRoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdmin creates a user with the admin role.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	user.Role = models.UserRoleAdmin
	if err := db.Model(user).Update("role", models.UserRoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction of the given type and amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, amount decimal.Decimal, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:          userID,
		Type:            txType,
		Category:        fmt.Sprintf("Test Category %d", nextID()),
		Amount:          amount,
		TransactionDate: date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGoal creates an active goal with the given target amount.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, target decimal.Decimal) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: target,
		Status:       models.GoalStatusActive,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestGoalWithEndDate creates an active goal with a deadline.
func CreateTestGoalWithEndDate(t *testing.T, db *gorm.DB, userID uint, target decimal.Decimal, endDate time.Time) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: target,
		EndDate:      &endDate,
		Status:       models.GoalStatusActive,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestContribution creates a raw contribution row without the
// synthetic ledger transaction. Use the goal service when the paired
// expense matters to the test.
func CreateTestContribution(t *testing.T, db *gorm.DB, goalID uint, amount decimal.Decimal, date time.Time) *models.GoalContribution {
	t.Helper()

	contribution := &models.GoalContribution{
		GoalID:           goalID,
		Amount:           amount,
		ContributionDate: date,
	}
	if err := db.Create(contribution).Error; err != nil {
		t.Fatalf("failed to create test contribution: %v", err)
	}
	return contribution
}
