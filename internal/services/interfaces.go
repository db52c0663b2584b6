package services

import (
	"time"

	"github.com/shopspring/decimal"

	"budgetmate/internal/models"
)

// UserUpdate holds optional fields for a partial user/profile update.
// Only non-nil fields are applied.
type UserUpdate struct {
	Name     *string
	Email    *string
	Salary   *decimal.Decimal
	Password *string
	Role     *models.UserRole
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(name, email, password string, salary decimal.Decimal) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(id uint, updates UserUpdate) (*models.User, error)
	ListUsers() ([]models.User, error)
	DeleteUser(id uint) error
	IssuePasswordReset(email string) (string, error)
	ResetPassword(token, password string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
// Absent filters are no-ops; present ones are AND-combined.
type TransactionFilter struct {
	Category  *string
	Type      *models.TransactionType
	StartDate *time.Time
	EndDate   *time.Time
}

// TransactionUpdate holds optional fields for a partial transaction update.
// Only non-nil fields are applied; an all-nil update is a plain read.
type TransactionUpdate struct {
	Type            *models.TransactionType
	Category        *string
	Amount          *decimal.Decimal
	Description     *string
	TransactionDate *time.Time
}

// MonthlySaving is one month's income/expense/savings aggregate.
type MonthlySaving struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Savings decimal.Decimal `json:"savings"`
}

// DashboardSummary contains full-history totals and the recent monthly series.
type DashboardSummary struct {
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpense   decimal.Decimal `json:"totalExpense"`
	Balance        decimal.Decimal `json:"balance"`
	MonthlySavings []MonthlySaving `json:"monthlySavings"`
}

// CategoryTotal is an income/expense split for a single category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
}

// TransactionServicer defines the contract for ledger and dashboard logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, txType models.TransactionType, category string, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, filter TransactionFilter) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, updates TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	GetDashboardSummary(userID uint) (*DashboardSummary, error)
	GetCategoryBreakdown(userID uint, startDate, endDate *time.Time) ([]CategoryTotal, error)

	// Admin operations; not tenant-scoped.
	ListAllTransactions() ([]models.Transaction, error)
	DeleteTransactionByID(transactionID uint) error
}

// GoalUpdate holds optional fields for a partial goal update.
// Only non-nil fields are applied.
type GoalUpdate struct {
	Name         *string
	TargetAmount *decimal.Decimal
	Description  *string
	EndDate      *time.Time
	Status       *models.GoalStatus
}

// GoalServicer defines the contract for goal bookkeeping. Contribution
// mutations go through it exclusively so the contribution row and its
// synthetic ledger transaction can never be written separately.
type GoalServicer interface {
	CreateGoal(userID uint, name string, target decimal.Decimal, description string, endDate *time.Time) (*models.Goal, error)
	GetUserGoals(userID uint) ([]models.Goal, error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	UpdateGoal(userID, goalID uint, updates GoalUpdate) (*models.Goal, error)
	DeleteGoal(userID, goalID uint) error

	AddContribution(userID, goalID uint, amount decimal.Decimal, date time.Time) (*models.Goal, error)
	UpdateContribution(userID, goalID, contributionID uint, amount decimal.Decimal, date time.Time) (*models.Goal, error)
	DeleteContribution(userID, goalID, contributionID uint) (*models.Goal, error)
	GetContributions(userID, goalID uint) ([]models.GoalContribution, error)
}

// ReportServicer builds the downloadable workbook report for a user.
type ReportServicer interface {
	BuildUserReport(userID uint) (data []byte, filename string, err error)
}
