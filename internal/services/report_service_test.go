package services

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"budgetmate/internal/models"
	"budgetmate/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestBuildUserReport(t *testing.T) {
	t.Run("workbook_layout", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		userSvc := NewUserService(db)
		txSvc := NewTransactionService(db)
		goalSvc := NewGoalService(db)
		svc := NewReportService(userSvc, txSvc, goalSvc)

		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, decimal.NewFromInt(3000), time.Now())
		goal := testutil.CreateTestGoal(t, db, user.ID, decimal.NewFromInt(1000))
		_, err := goalSvc.AddContribution(user.ID, goal.ID, decimal.NewFromInt(100), time.Now())
		testutil.AssertNoError(t, err)

		data, filename, err := svc.BuildUserReport(user.ID)
		testutil.AssertNoError(t, err)

		wantPrefix := fmt.Sprintf("BudgetMate-report-%d-", user.ID)
		if !strings.HasPrefix(filename, wantPrefix) || !strings.HasSuffix(filename, ".xlsx") {
			t.Errorf("unexpected filename %q", filename)
		}

		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("failed to reopen workbook: %v", err)
		}
		defer f.Close()

		want := []string{"Summary", "Monthly Savings", "Category Breakdown", "Transactions", "Goals"}
		got := f.GetSheetList()
		if len(got) != len(want) {
			t.Fatalf("expected %d sheets, got %v", len(want), got)
		}
		for i, name := range want {
			if got[i] != name {
				t.Errorf("expected sheet %d to be %q, got %q", i, name, got[i])
			}
		}

		balance, err := f.GetCellValue("Summary", "B6")
		testutil.AssertNoError(t, err)
		if balance == "" {
			t.Error("expected balance cell to be populated")
		}

		goalName, err := f.GetCellValue("Goals", "A2")
		testutil.AssertNoError(t, err)
		if goalName != goal.Name {
			t.Errorf("expected goal row %q, got %q", goal.Name, goalName)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(NewUserService(db), NewTransactionService(db), NewGoalService(db))

		_, _, err := svc.BuildUserReport(9999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
