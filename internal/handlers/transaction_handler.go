package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/models"
	"budgetmate/internal/services"
)

// TransactionHandler handles ledger CRUD and the dashboard summary.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the payload for creating a transaction.
type CreateTransactionRequest struct {
	Type            string          `json:"type" binding:"required,transaction_type"`
	Category        string          `json:"category" binding:"required,max=100"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description" binding:"omitempty,max=255"`
	TransactionDate string          `json:"transactionDate" binding:"required,dateonly"`
}

// UpdateTransactionRequest represents a partial transaction update payload.
type UpdateTransactionRequest struct {
	Type            *string          `json:"type" binding:"omitempty,transaction_type"`
	Category        *string          `json:"category" binding:"omitempty,max=100"`
	Amount          *decimal.Decimal `json:"amount"`
	Description     *string          `json:"description" binding:"omitempty,max=255"`
	TransactionDate *string          `json:"transactionDate" binding:"omitempty,dateonly"`
}

// parseListFilters builds a TransactionFilter from query parameters.
func parseListFilters(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if typeStr := c.Query("type"); typeStr != "" {
		if typeStr != string(models.TransactionTypeIncome) && typeStr != string(models.TransactionTypeExpense) {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense")
		}
		txType := models.TransactionType(typeStr)
		filter.Type = &txType
	}
	if startStr := c.Query("startDate"); startStr != "" {
		start, err := time.Parse(time.DateOnly, startStr)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "startDate must be a date in YYYY-MM-DD form")
		}
		filter.StartDate = &start
	}
	if endStr := c.Query("endDate"); endStr != "" {
		end, err := time.Parse(time.DateOnly, endStr)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "endDate must be a date in YYYY-MM-DD form")
		}
		filter.EndDate = &end
	}

	return filter, nil
}

// respondWithSummary attaches the refreshed dashboard summary to extra
// response fields. Every mutation answers with the new summary so the
// client can repaint the dashboard without a second request.
func (h *TransactionHandler) respondWithSummary(c *gin.Context, status int, userID uint, extra gin.H) {
	summary, err := h.transactionService.GetDashboardSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	extra["summary"] = summary
	c.JSON(status, extra)
}

// ListTransactions returns the user's ledger with the dashboard summary.
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       category  query string false "Filter by category"
// @Param       type      query string false "Filter by type (income|expense)"
// @Param       startDate query string false "Filter from date (YYYY-MM-DD)"
// @Param       endDate   query string false "Filter to date (YYYY-MM-DD)"
// @Success     200 {object} map[string]interface{} "Transactions and summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseListFilters(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetUserTransactions(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithSummary(c, http.StatusOK, userID, gin.H{"transactions": transactions})
}

// CreateTransaction records a new ledger entry.
// @Summary     Create a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction data"
// @Success     201 {object} map[string]interface{} "Transaction and summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID,
		models.TransactionType(req.Type),
		req.Category,
		req.Amount,
		req.Description,
		parseDate(req.TransactionDate),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithSummary(c, http.StatusCreated, userID, gin.H{"transaction": transaction})
}

// UpdateTransaction applies a partial update to a ledger entry.
// @Summary     Update a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} map[string]interface{} "Transaction and summary"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	updates := services.TransactionUpdate{
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Type != nil {
		txType := models.TransactionType(*req.Type)
		updates.Type = &txType
	}
	if req.TransactionDate != nil {
		date := parseDate(*req.TransactionDate)
		updates.TransactionDate = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, updates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithSummary(c, http.StatusOK, userID, gin.H{"transaction": transaction})
}

// DeleteTransaction removes a ledger entry.
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Confirmation and summary"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithSummary(c, http.StatusOK, userID, gin.H{"message": "Transaction deleted"})
}

// GetDashboard returns the dashboard summary on its own.
// @Summary     Dashboard summary
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Totals, balance, and monthly savings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard [get]
func (h *TransactionHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetDashboardSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetCategoryBreakdown returns per-category income and expense totals.
// @Summary     Category breakdown
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       startDate query string false "Filter from date (YYYY-MM-DD)"
// @Param       endDate   query string false "Filter to date (YYYY-MM-DD)"
// @Success     200 {object} map[string]interface{} "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/categories [get]
func (h *TransactionHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseListFilters(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.transactionService.GetCategoryBreakdown(userID, filter.StartDate, filter.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
