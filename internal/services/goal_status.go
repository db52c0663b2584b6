package services

import (
	"time"

	"github.com/shopspring/decimal"

	"budgetmate/internal/models"
)

// DeriveStatus derives a goal's lifecycle status from its aggregates.
// Achieved wins over expired: a fully funded goal stays achieved even
// past its end date. The end date comparison is calendar-day based; a
// goal ending today is still active.
func DeriveStatus(targetAmount, savedAmount decimal.Decimal, endDate *time.Time, now time.Time) models.GoalStatus {
	if targetAmount.IsPositive() && savedAmount.GreaterThanOrEqual(targetAmount) {
		return models.GoalStatusAchieved
	}

	if endDate != nil {
		y, m, d := now.UTC().Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if endDate.Before(today) {
			return models.GoalStatusExpired
		}
	}

	return models.GoalStatusActive
}
