package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestTransactionFlow_CreateListUpdateDelete(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "ledger@test.com", "password123")

	// Step 1: Record income and an expense
	rec := app.request("POST", "/api/transactions",
		`{"type":"income","category":"Salary","amount":3000,"transactionDate":"2026-08-01"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/transactions",
		`{"type":"expense","category":"Rent","amount":1200,"description":"August rent","transactionDate":"2026-08-03"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	created := parseJSON(t, rec)["transaction"].(map[string]interface{})
	expenseID := created["id"].(float64)

	// Mutations answer with the refreshed summary
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["balance"] != "1800" {
		t.Errorf("expected balance 1800 after both entries, got %v", summary["balance"])
	}

	// Step 2: List newest-first
	rec = app.request("GET", "/api/transactions", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	transactions := parseJSON(t, rec)["transactions"].([]interface{})
	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}
	newest := transactions[0].(map[string]interface{})
	if newest["category"] != "Rent" {
		t.Errorf("expected newest entry first, got %v", newest["category"])
	}

	// Step 3: Filter by type
	rec = app.request("GET", "/api/transactions?type=income", "", token)
	incomes := parseJSON(t, rec)["transactions"].([]interface{})
	if len(incomes) != 1 {
		t.Fatalf("expected 1 income, got %d", len(incomes))
	}

	// Step 4: Update the expense
	rec = app.request("PUT", fmt.Sprintf("/api/transactions/%.0f", expenseID),
		`{"amount":1250}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	updated := result["transaction"].(map[string]interface{})
	if updated["amount"] != "1250" {
		t.Errorf("expected amount 1250, got %v", updated["amount"])
	}
	summary = result["summary"].(map[string]interface{})
	if summary["balance"] != "1750" {
		t.Errorf("expected balance 1750 after update, got %v", summary["balance"])
	}

	// Step 5: Delete the expense
	rec = app.request("DELETE", fmt.Sprintf("/api/transactions/%.0f", expenseID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}
	summary = parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["balance"] != "3000" {
		t.Errorf("expected balance 3000 after delete, got %v", summary["balance"])
	}
}

func TestTransactionFlow_TenantIsolation(t *testing.T) {
	app := setupApp(t)
	tokenA, _ := app.registerUser(t, "alice@test.com", "password123")
	tokenB, _ := app.registerUser(t, "bob@test.com", "password123")

	rec := app.request("POST", "/api/transactions",
		`{"type":"income","category":"Salary","amount":3000,"transactionDate":"2026-08-01"}`, tokenA)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	txID := parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(float64)

	// B sees nothing
	rec = app.request("GET", "/api/transactions", "", tokenB)
	transactions := parseJSON(t, rec)["transactions"].([]interface{})
	if len(transactions) != 0 {
		t.Fatalf("expected empty ledger for second user, got %d entries", len(transactions))
	}

	// B cannot touch A's entry
	rec = app.request("PUT", fmt.Sprintf("/api/transactions/%.0f", txID),
		`{"amount":1}`, tokenB)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-tenant update, got %d", rec.Code)
	}
	rec = app.request("DELETE", fmt.Sprintf("/api/transactions/%.0f", txID), "", tokenB)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-tenant delete, got %d", rec.Code)
	}

	// A's entry survived
	rec = app.request("GET", "/api/transactions", "", tokenA)
	transactions = parseJSON(t, rec)["transactions"].([]interface{})
	if len(transactions) != 1 {
		t.Fatalf("expected owner's ledger intact, got %d entries", len(transactions))
	}
}

func TestTransactionFlow_DashboardAndBreakdown(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "dash@test.com", "password123")

	entries := []string{
		`{"type":"income","category":"Salary","amount":3000,"transactionDate":"2026-07-01"}`,
		`{"type":"expense","category":"Rent","amount":1200,"transactionDate":"2026-07-03"}`,
		`{"type":"income","category":"Salary","amount":3000,"transactionDate":"2026-08-01"}`,
		`{"type":"expense","category":"Groceries","amount":180,"transactionDate":"2026-08-05"}`,
	}
	for _, body := range entries {
		rec := app.request("POST", "/api/transactions", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec := app.request("GET", "/api/dashboard", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard failed: %d %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["totalIncome"] != "6000" || summary["totalExpense"] != "1380" {
		t.Errorf("unexpected totals: income=%v expense=%v", summary["totalIncome"], summary["totalExpense"])
	}
	months := summary["monthlySavings"].([]interface{})
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}
	july := months[0].(map[string]interface{})
	if july["month"] != "2026-07" || july["savings"] != "1800" {
		t.Errorf("unexpected July bucket: %v", july)
	}

	rec = app.request("GET", "/api/transactions/categories?startDate=2026-08-01", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("breakdown failed: %d %s", rec.Code, rec.Body.String())
	}
	categories := parseJSON(t, rec)["categories"].([]interface{})
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories in August, got %d", len(categories))
	}
}
