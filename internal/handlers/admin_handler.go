package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"budgetmate/internal/models"
	"budgetmate/internal/services"
)

// AdminHandler exposes cross-tenant management endpoints.
type AdminHandler struct {
	userService        services.UserServicer
	transactionService services.TransactionServicer
	goalService        services.GoalServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService services.UserServicer, transactionService services.TransactionServicer, goalService services.GoalServicer) *AdminHandler {
	return &AdminHandler{
		userService:        userService,
		transactionService: transactionService,
		goalService:        goalService,
	}
}

// AdminUpdateUserRequest represents an admin's partial user update.
type AdminUpdateUserRequest struct {
	Name   *string          `json:"name" binding:"omitempty,max=100"`
	Email  *string          `json:"email" binding:"omitempty,email"`
	Salary *decimal.Decimal `json:"salary"`
	Role   *string          `json:"role" binding:"omitempty,oneof=user admin"`
}

// ListUsers returns every registered user.
// @Summary     List users
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Users"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateUser applies an admin edit to any user, including role changes.
// @Summary     Update a user
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int true "User ID"
// @Param       request body AdminUpdateUserRequest true "Fields to change"
// @Success     200 {object} map[string]interface{} "Updated user"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	updates := services.UserUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Salary: req.Salary,
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		updates.Role = &role
	}

	user, err := h.userService.UpdateUser(userID, updates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// DeleteUser removes a user and all their data.
// @Summary     Delete a user
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} map[string]interface{} "Confirmation"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// GetUserOverview returns a user's profile, dashboard, and goals in one shot.
// @Summary     Get a user's overview
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} map[string]interface{} "User, dashboard summary, and goals"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /admin/users/{id}/overview [get]
func (h *AdminHandler) GetUserOverview(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetDashboardSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetUserGoals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      userResponse(user),
		"dashboard": summary,
		"goals":     goals,
	})
}

// ListTransactions lists all transactions across tenants with owner details.
// @Summary     List all transactions
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Transactions"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Router      /admin/transactions [get]
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.transactionService.ListAllTransactions()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// DeleteTransaction removes any user's transaction.
// @Summary     Delete any transaction
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Confirmation"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /admin/transactions/{id} [delete]
func (h *AdminHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransactionByID(transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}
