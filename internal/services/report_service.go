package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/models"
)

// currencyFormat is the number format applied to amount columns.
const currencyFormat = `"₹"#,##0.00`

// reportService materializes a user's finances into an XLSX workbook
// with Summary, Monthly Savings, Category Breakdown, Transactions and
// Goals sheets. It is a stateless transform over the other services'
// aggregates.
type reportService struct {
	users        UserServicer
	transactions TransactionServicer
	goals        GoalServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(users UserServicer, transactions TransactionServicer, goals GoalServicer) ReportServicer {
	return &reportService{
		users:        users,
		transactions: transactions,
		goals:        goals,
	}
}

// BuildUserReport assembles the workbook for a user and returns its
// bytes together with the attachment filename.
func (s *reportService) BuildUserReport(userID uint) ([]byte, string, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, "", err
	}
	summary, err := s.transactions.GetDashboardSummary(userID)
	if err != nil {
		return nil, "", err
	}
	transactions, err := s.transactions.GetUserTransactions(userID, TransactionFilter{})
	if err != nil {
		return nil, "", err
	}
	goals, err := s.goals.GetUserGoals(userID)
	if err != nil {
		return nil, "", err
	}
	categories, err := s.transactions.GetCategoryBreakdown(userID, nil, nil)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	numFmt := currencyFormat
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.writeSummarySheet(f, currencyStyle, user, summary); err != nil {
		return nil, "", err
	}
	if err := s.writeMonthlySheet(f, currencyStyle, summary.MonthlySavings); err != nil {
		return nil, "", err
	}
	if err := s.writeCategorySheet(f, currencyStyle, categories); err != nil {
		return nil, "", err
	}
	if err := s.writeTransactionsSheet(f, currencyStyle, transactions); err != nil {
		return nil, "", err
	}
	if err := s.writeGoalsSheet(f, currencyStyle, goals); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	filename := fmt.Sprintf("BudgetMate-report-%d-%s.xlsx", userID, time.Now().Format(time.DateOnly))
	return buf.Bytes(), filename, nil
}

// writeRow writes values left to right starting at column A of the given row.
func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if d, ok := value.(decimal.Decimal); ok {
			value = d.InexactFloat64()
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

func (s *reportService) writeSummarySheet(f *excelize.File, currencyStyle int, user *models.User, summary *DashboardSummary) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	_ = f.SetColWidth(sheet, "A", "A", 25)
	_ = f.SetColWidth(sheet, "B", "B", 20)

	if err := writeRow(f, sheet, 1, "Metric", "Value"); err != nil {
		return err
	}
	rows := []struct {
		metric string
		value  interface{}
	}{
		{"User", user.Name},
		{"Email", user.Email},
		{"Total Income", summary.TotalIncome},
		{"Total Expense", summary.TotalExpense},
		{"Current Balance", summary.Balance},
		{"Salary", user.Salary},
	}
	for i, r := range rows {
		if err := writeRow(f, sheet, i+2, r.metric, r.value); err != nil {
			return err
		}
	}
	// name and email stay plain; the currency format only renders numbers
	if err := f.SetCellStyle(sheet, "B4", fmt.Sprintf("B%d", len(rows)+1), currencyStyle); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *reportService) writeMonthlySheet(f *excelize.File, currencyStyle int, monthly []MonthlySaving) error {
	const sheet = "Monthly Savings"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	_ = f.SetColWidth(sheet, "A", "D", 15)

	if err := writeRow(f, sheet, 1, "Month", "Income", "Expense", "Savings"); err != nil {
		return err
	}
	for i, m := range monthly {
		if err := writeRow(f, sheet, i+2, m.Month, m.Income, m.Expense, m.Savings); err != nil {
			return err
		}
	}
	if len(monthly) > 0 {
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("D%d", len(monthly)+1), currencyStyle); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

func (s *reportService) writeCategorySheet(f *excelize.File, currencyStyle int, categories []CategoryTotal) error {
	const sheet = "Category Breakdown"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	_ = f.SetColWidth(sheet, "A", "C", 18)

	if err := writeRow(f, sheet, 1, "Category", "Total Income", "Total Expense"); err != nil {
		return err
	}
	for i, c := range categories {
		if err := writeRow(f, sheet, i+2, c.Category, c.Income, c.Expense); err != nil {
			return err
		}
	}
	if len(categories) > 0 {
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("C%d", len(categories)+1), currencyStyle); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

func (s *reportService) writeTransactionsSheet(f *excelize.File, currencyStyle int, transactions []models.Transaction) error {
	const sheet = "Transactions"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	_ = f.SetColWidth(sheet, "A", "D", 16)
	_ = f.SetColWidth(sheet, "E", "E", 30)

	if err := writeRow(f, sheet, 1, "Date", "Type", "Category", "Amount", "Description"); err != nil {
		return err
	}
	for i, tx := range transactions {
		err := writeRow(f, sheet, i+2,
			tx.TransactionDate.Format(time.DateOnly),
			string(tx.Type),
			tx.Category,
			tx.Amount,
			tx.Description,
		)
		if err != nil {
			return err
		}
	}
	if len(transactions) > 0 {
		if err := f.SetCellStyle(sheet, "D2", fmt.Sprintf("D%d", len(transactions)+1), currencyStyle); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

func (s *reportService) writeGoalsSheet(f *excelize.File, currencyStyle int, goals []models.Goal) error {
	const sheet = "Goals"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	_ = f.SetColWidth(sheet, "A", "E", 18)

	if err := writeRow(f, sheet, 1, "Name", "Target Amount", "Saved Amount", "Status", "End Date"); err != nil {
		return err
	}
	for i, goal := range goals {
		endDate := ""
		if goal.EndDate != nil {
			endDate = goal.EndDate.Format(time.DateOnly)
		}
		err := writeRow(f, sheet, i+2,
			goal.Name,
			goal.TargetAmount,
			goal.SavedAmount,
			string(goal.Status),
			endDate,
		)
		if err != nil {
			return err
		}
	}
	if len(goals) > 0 {
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("C%d", len(goals)+1), currencyStyle); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}
