package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus represents the lifecycle status of a savings goal.
// It is a cached projection: stored in the goals table but derived
// from the saved amount and end date, and lazily recomputed whenever
// a goal is read or mutated.
type GoalStatus string

const (
	GoalStatusActive   GoalStatus = "active"
	GoalStatusAchieved GoalStatus = "achieved"
	GoalStatusExpired  GoalStatus = "expired"
)

// Goal represents a savings target owned by a user.
type Goal struct {
	Base
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	Name         string          `gorm:"size:150;not null" json:"name"`
	TargetAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"target_amount"`
	Description  string          `gorm:"size:255" json:"description"`
	EndDate      *time.Time      `gorm:"type:date" json:"end_date,omitempty"`
	Status       GoalStatus      `gorm:"size:10;not null;default:active" json:"status"`

	// SavedAmount is never stored; it is always SUM(contributions.amount)
	// at query time.
	SavedAmount decimal.Decimal `gorm:"-" json:"saved_amount"`

	Contributions []GoalContribution `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"contributions,omitempty"`
}
