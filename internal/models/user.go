package models

import "github.com/shopspring/decimal"

// UserRole represents a user's access level
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User represents the user model in the database
type User struct {
	Base
	Name         string          `gorm:"size:100;not null" json:"name"`
	Email        string          `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string          `gorm:"not null" json:"-"`
	Salary       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"salary"`
	Role         UserRole        `gorm:"size:10;not null;default:user" json:"role"`

	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Goals        []Goal        `gorm:"foreignKey:UserID" json:"goals,omitempty"`
}
