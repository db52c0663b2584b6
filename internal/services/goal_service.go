package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/models"
)

// goalService handles goal bookkeeping: goal CRUD, the status
// projection, and the contribution/ledger reconciliation.
//
// Contribution mutations pair a goal_contributions write with a
// synthetic transactions insert inside one database transaction. The
// two tables are not foreign-keyed; this service is the only code path
// allowed to touch contributions so the pairing cannot be skipped.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// savedAmount computes the live contribution sum for a goal.
func savedAmount(tx *gorm.DB, goalID uint) (decimal.Decimal, error) {
	row := tx.Model(&models.GoalContribution{}).
		Where("goal_id = ?", goalID).
		Select("COALESCE(SUM(amount), 0)").
		Row()

	var sum decimal.Decimal
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sum, nil
}

// loadGoal fetches a goal scoped to its owner and fills SavedAmount.
// Non-owned and nonexistent goals are both reported as not found.
func (s *goalService) loadGoal(goalID, userID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	saved, err := savedAmount(s.db, goal.ID)
	if err != nil {
		return nil, err
	}
	goal.SavedAmount = saved
	return &goal, nil
}

// syncStatus recomputes the status projection and persists it only when
// it differs from the stored value. Calling it twice on an unchanged
// goal issues no second write.
func (s *goalService) syncStatus(goal *models.Goal) error {
	derived := DeriveStatus(goal.TargetAmount, goal.SavedAmount, goal.EndDate, time.Now())
	if derived == goal.Status {
		return nil
	}

	if err := s.db.Model(&models.Goal{}).Where("id = ?", goal.ID).
		Update("status", derived).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	goal.Status = derived
	return nil
}

// refreshGoal reloads a goal with its saved amount and resyncs status.
func (s *goalService) refreshGoal(goalID, userID uint) (*models.Goal, error) {
	goal, err := s.loadGoal(goalID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.syncStatus(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// CreateGoal creates a new savings goal.
func (s *goalService) CreateGoal(userID uint, name string, target decimal.Decimal, description string, endDate *time.Time) (*models.Goal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !target.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}

	goal := &models.Goal{
		UserID:       userID,
		Name:         name,
		TargetAmount: target,
		Description:  description,
		EndDate:      endDate,
		Status:       models.GoalStatusActive,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.refreshGoal(goal.ID, userID)
}

// GetUserGoals returns the user's goals, newest first, each with its
// live saved amount and a freshly synced status.
func (s *goalService) GetUserGoals(userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range goals {
		saved, err := savedAmount(s.db, goals[i].ID)
		if err != nil {
			return nil, err
		}
		goals[i].SavedAmount = saved
		if err := s.syncStatus(&goals[i]); err != nil {
			return nil, err
		}
	}
	return goals, nil
}

// GetGoalByID returns a goal owned by the user with a synced status.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	return s.refreshGoal(goalID, userID)
}

// UpdateGoal applies a partial update. Only non-nil fields change; the
// status projection is resynced afterwards, so a manual status override
// survives only until the derived value disagrees.
func (s *goalService) UpdateGoal(userID, goalID uint, updates GoalUpdate) (*models.Goal, error) {
	goal, err := s.loadGoal(goalID, userID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if updates.Name != nil {
		fields["name"] = *updates.Name
	}
	if updates.TargetAmount != nil {
		if !updates.TargetAmount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
		}
		fields["target_amount"] = *updates.TargetAmount
	}
	if updates.Description != nil {
		fields["description"] = *updates.Description
	}
	if updates.EndDate != nil {
		fields["end_date"] = *updates.EndDate
	}
	if updates.Status != nil {
		fields["status"] = *updates.Status
	}

	if len(fields) > 0 {
		if err := s.db.Model(goal).Updates(fields).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.refreshGoal(goalID, userID)
}

// DeleteGoal removes a goal and its contribution history. The ledger
// transactions previously created for those contributions are kept;
// deleting a goal does not rewrite spending history.
func (s *goalService) DeleteGoal(userID, goalID uint) error {
	goal, err := s.loadGoal(goalID, userID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.GoalContribution{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AddContribution records a deposit toward a goal. The contribution row
// and its synthetic expense transaction are written atomically: either
// both land or neither does.
func (s *goalService) AddContribution(userID, goalID uint, amount decimal.Decimal, date time.Time) (*models.Goal, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	goal, err := s.loadGoal(goalID, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		contribution := &models.GoalContribution{
			GoalID:           goal.ID,
			Amount:           amount,
			ContributionDate: date,
		}
		if err := tx.Create(contribution).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		ledgerEntry := &models.Transaction{
			UserID:          userID,
			Type:            models.TransactionTypeExpense,
			Category:        models.CategoryGoalContribution,
			Amount:          amount,
			Description:     "Contribution to goal: " + goal.Name,
			TransactionDate: date,
		}
		if err := tx.Create(ledgerEntry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.refreshGoal(goalID, userID)
}

// loadContribution fetches a contribution through a join that also
// verifies the goal belongs to the user. A contribution under someone
// else's goal is indistinguishable from a missing one.
func (s *goalService) loadContribution(userID, goalID, contributionID uint) (*models.GoalContribution, error) {
	var contribution models.GoalContribution
	err := s.db.
		Joins("INNER JOIN goals ON goals.id = goal_contributions.goal_id").
		Where("goal_contributions.id = ? AND goals.id = ? AND goals.user_id = ?", contributionID, goalID, userID).
		First(&contribution).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrContributionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &contribution, nil
}

// UpdateContribution changes a contribution's amount and date, and
// reconciles the ledger with a transaction for the signed difference:
// an increase books an extra expense, a decrease books an income refund,
// no change books nothing. The reversal is dated at the new contribution
// date, not the original one.
//
// The delta is computed from the amount read before the write; there is
// no optimistic lock, so two concurrent edits of the same contribution
// race with last-write-wins.
func (s *goalService) UpdateContribution(userID, goalID, contributionID uint, amount decimal.Decimal, date time.Time) (*models.Goal, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	goal, err := s.loadGoal(goalID, userID)
	if err != nil {
		return nil, err
	}

	contribution, err := s.loadContribution(userID, goalID, contributionID)
	if err != nil {
		return nil, err
	}

	delta := amount.Sub(contribution.Amount)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"amount":            amount,
			"contribution_date": date,
		}
		if err := tx.Model(&models.GoalContribution{}).
			Where("id = ?", contribution.ID).
			Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if delta.IsZero() {
			return nil
		}

		ledgerEntry := &models.Transaction{
			UserID:          userID,
			TransactionDate: date,
		}
		if delta.IsPositive() {
			ledgerEntry.Type = models.TransactionTypeExpense
			ledgerEntry.Category = models.CategoryGoalContributionEdit
			ledgerEntry.Amount = delta
			ledgerEntry.Description = "Increase contribution to goal: " + goal.Name
		} else {
			ledgerEntry.Type = models.TransactionTypeIncome
			ledgerEntry.Category = models.CategorySalary
			ledgerEntry.Amount = delta.Abs()
			ledgerEntry.Description = "Decrease contribution to goal: " + goal.Name
		}

		if err := tx.Create(ledgerEntry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.refreshGoal(goalID, userID)
}

// DeleteContribution removes a contribution and refunds its full amount
// to the ledger as income, dated at the deletion day rather than the
// original contribution date.
func (s *goalService) DeleteContribution(userID, goalID, contributionID uint) (*models.Goal, error) {
	goal, err := s.loadGoal(goalID, userID)
	if err != nil {
		return nil, err
	}

	contribution, err := s.loadContribution(userID, goalID, contributionID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.GoalContribution{}, contribution.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		ledgerEntry := &models.Transaction{
			UserID:          userID,
			Type:            models.TransactionTypeIncome,
			Category:        models.CategorySalary,
			Amount:          contribution.Amount,
			Description:     "Delete contribution to goal: " + goal.Name,
			TransactionDate: time.Now(),
		}
		if err := tx.Create(ledgerEntry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.refreshGoal(goalID, userID)
}

// GetContributions lists a goal's contributions, newest first.
func (s *goalService) GetContributions(userID, goalID uint) ([]models.GoalContribution, error) {
	if _, err := s.loadGoal(goalID, userID); err != nil {
		return nil, err
	}

	var contributions []models.GoalContribution
	if err := s.db.Where("goal_id = ?", goalID).
		Order("contribution_date DESC").
		Find(&contributions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return contributions, nil
}
