package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Categories used for transactions the goal reconciler inserts on the
// user's behalf when a contribution is added, increased, reduced, or
// deleted.
const (
	CategoryGoalContribution     = "Goal Contribution"
	CategoryGoalContributionEdit = "Goal Contribution (edit)"
	CategorySalary               = "Salary"
)

// Transaction represents a single income or expense ledger entry.
// Entries are created directly by the user, or synthetically by the
// goal service as the ledger half of a contribution change.
type Transaction struct {
	Base
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	Type            TransactionType `gorm:"size:10;not null" json:"type"`
	Category        string          `gorm:"size:100;not null" json:"category"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description     string          `gorm:"size:255" json:"description"`
	TransactionDate time.Time       `gorm:"type:date;not null" json:"transaction_date"`

	// Loaded only on admin listings.
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
