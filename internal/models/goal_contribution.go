package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalContribution represents a single deposit toward a goal's target.
// Every add/edit/delete of a contribution is paired with a synthetic
// Transaction by the goal service; the two are not foreign-keyed, so
// that pairing must only ever happen inside the goal service.
type GoalContribution struct {
	Base
	GoalID           uint            `gorm:"not null;index" json:"goal_id"`
	Amount           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	ContributionDate time.Time       `gorm:"type:date;not null" json:"contribution_date"`
}
