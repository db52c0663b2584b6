package services

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/models"
)

// transactionService handles ledger and dashboard business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction creates a new ledger entry for a user.
func (s *transactionService) CreateTransaction(
	userID uint,
	txType models.TransactionType,
	category string,
	amount decimal.Decimal,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:          userID,
		Type:            txType,
		Category:        category,
		Amount:          amount,
		Description:     description,
		TransactionDate: date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions retrieves a user's ledger entries, newest first,
// with the optional filters AND-combined.
func (s *transactionService) GetUserTransactions(userID uint, filter TransactionFilter) ([]models.Transaction, error) {
	q := s.db.Where("user_id = ?", userID)
	q = applyTransactionFilters(q, filter)

	var transactions []models.Transaction
	if err := q.Order("transaction_date DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.StartDate != nil {
		q = q.Where("transaction_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("transaction_date <= ?", *f.EndDate)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
// A transaction owned by another user is reported as not found.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update to a ledger entry. Only
// non-nil fields change; an all-nil update is a plain read.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, updates TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if updates.Type != nil {
		fields["type"] = *updates.Type
	}
	if updates.Category != nil {
		fields["category"] = *updates.Category
	}
	if updates.Amount != nil {
		if !updates.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		fields["amount"] = *updates.Amount
	}
	if updates.Description != nil {
		fields["description"] = *updates.Description
	}
	if updates.TransactionDate != nil {
		fields["transaction_date"] = *updates.TransactionDate
	}

	if len(fields) > 0 {
		if err := s.db.Model(transaction).Updates(fields).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction removes a ledger entry owned by the user.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// sumByType computes the full-history amount sum for one transaction type.
func (s *transactionService) sumByType(userID uint, txType models.TransactionType) (decimal.Decimal, error) {
	row := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, txType).
		Select("COALESCE(SUM(amount), 0)").
		Row()

	var sum decimal.Decimal
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sum, nil
}

// GetDashboardSummary computes the user's totals and the monthly savings
// series for the 6 most recent months with activity, oldest first.
//
// Month bucketing happens in Go rather than SQL so the same code runs
// against Postgres in production and SQLite in tests.
func (s *transactionService) GetDashboardSummary(userID uint) (*DashboardSummary, error) {
	totalIncome, err := s.sumByType(userID, models.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.sumByType(userID, models.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.Select("type", "amount", "transaction_date").
		Where("user_id = ?", userID).
		Order("transaction_date ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byMonth := make(map[string]*MonthlySaving)
	var months []string
	for _, tx := range transactions {
		month := tx.TransactionDate.Format("2006-01")
		entry, ok := byMonth[month]
		if !ok {
			entry = &MonthlySaving{Month: month}
			byMonth[month] = entry
			months = append(months, month)
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			entry.Income = entry.Income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			entry.Expense = entry.Expense.Add(tx.Amount)
		}
	}

	// rows are date-ordered, so months is already ascending; keep the
	// most recent 6
	sort.Strings(months)
	if len(months) > 6 {
		months = months[len(months)-6:]
	}

	monthlySavings := make([]MonthlySaving, 0, len(months))
	for _, month := range months {
		entry := byMonth[month]
		entry.Savings = entry.Income.Sub(entry.Expense)
		monthlySavings = append(monthlySavings, *entry)
	}

	return &DashboardSummary{
		TotalIncome:    totalIncome,
		TotalExpense:   totalExpense,
		Balance:        totalIncome.Sub(totalExpense),
		MonthlySavings: monthlySavings,
	}, nil
}

// GetCategoryBreakdown computes per-category income/expense totals,
// optionally bounded by a date range, ordered by category name.
func (s *transactionService) GetCategoryBreakdown(userID uint, startDate, endDate *time.Time) ([]CategoryTotal, error) {
	q := s.db.Select("type", "category", "amount").Where("user_id = ?", userID)
	if startDate != nil {
		q = q.Where("transaction_date >= ?", *startDate)
	}
	if endDate != nil {
		q = q.Where("transaction_date <= ?", *endDate)
	}

	var transactions []models.Transaction
	if err := q.Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byCategory := make(map[string]*CategoryTotal)
	for _, tx := range transactions {
		entry, ok := byCategory[tx.Category]
		if !ok {
			entry = &CategoryTotal{Category: tx.Category}
			byCategory[tx.Category] = entry
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			entry.Income = entry.Income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			entry.Expense = entry.Expense.Add(tx.Amount)
		}
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	breakdown := make([]CategoryTotal, 0, len(names))
	for _, name := range names {
		breakdown = append(breakdown, *byCategory[name])
	}
	return breakdown, nil
}

// ListAllTransactions returns every transaction with its owner preloaded,
// newest first. Admin only; callers must gate on role.
func (s *transactionService) ListAllTransactions() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Preload("User").Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// DeleteTransactionByID removes any transaction regardless of owner.
// Admin only; callers must gate on role.
func (s *transactionService) DeleteTransactionByID(transactionID uint) error {
	result := s.db.Delete(&models.Transaction{}, transactionID)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}
