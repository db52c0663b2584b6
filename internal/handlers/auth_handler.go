package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"budgetmate/internal/config"
	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/mailer"
	"budgetmate/internal/middleware"
	"budgetmate/internal/models"
	"budgetmate/internal/services"
)

// AuthHandler handles registration, login, profile and password reset.
type AuthHandler struct {
	userService        services.UserServicer
	transactionService services.TransactionServicer
	goalService        services.GoalServicer
	mailer             mailer.Mailer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	userService services.UserServicer,
	transactionService services.TransactionServicer,
	goalService services.GoalServicer,
	m mailer.Mailer,
) *AuthHandler {
	return &AuthHandler{
		userService:        userService,
		transactionService: transactionService,
		goalService:        goalService,
		mailer:             m,
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name     string           `json:"name" binding:"required,max=100"`
	Email    string           `json:"email" binding:"required,email,max=255"`
	Password string           `json:"password" binding:"required,min=6,max=128"`
	Salary   *decimal.Decimal `json:"salary"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents a partial profile update payload.
type UpdateProfileRequest struct {
	Name     *string          `json:"name" binding:"omitempty,max=100"`
	Email    *string          `json:"email" binding:"omitempty,email,max=255"`
	Salary   *decimal.Decimal `json:"salary"`
	Password *string          `json:"password" binding:"omitempty,min=6,max=128"`
}

// ForgotPasswordRequest represents the reset-request payload.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents the password reset payload.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required,min=10"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"salary": user.Salary,
		"role":   user.Role,
	}
}

func (h *AuthHandler) authResponse(c *gin.Context, status int, user *models.User) {
	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.JSON(status, gin.H{"token": token, "user": userResponse(user)})
}

// Register handles user registration
// @Summary     Register a new user
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} map[string]interface{} "Token and user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	salary := decimal.Zero
	if req.Salary != nil {
		salary = *req.Salary
	}

	user, err := h.userService.Register(req.Name, req.Email, req.Password, salary)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.authResponse(c, http.StatusCreated, user)
}

// Login handles user login
// @Summary     Login user
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} map[string]interface{} "Token and user"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.Authenticate(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.authResponse(c, http.StatusOK, user)
}

// GetProfile returns the user's profile with their dashboard and goals.
// @Summary     Get user profile
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "User, dashboard and goals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/me [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.transactionService.GetDashboardSummary(userID)
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
		"dashboard": dashboard,
		"goals":     goals,
	})
}

// UpdateProfile applies a partial update to the authenticated user.
// @Summary     Update user profile
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields to change"
// @Success     200 {object} map[string]interface{} "Updated user"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/me [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(userID, services.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Salary:   req.Salary,
		Password: req.Password,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// ForgotPassword issues a reset token and attempts email delivery. The
// response is 200 whether or not the email is registered, so the
// endpoint cannot be used to probe for accounts.
// @Summary     Request a password reset
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ForgotPasswordRequest true "Account email"
// @Success     200 {object} map[string]interface{} "Delivery status"
// @Router      /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	token, err := h.userService.IssuePasswordReset(req.Email)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Code == apperrors.ErrUserNotFound.Code {
			c.JSON(http.StatusOK, gin.H{
				"message": "If the email is registered, you'll receive reset instructions shortly.",
			})
			return
		}
		respondWithError(c, err)
		return
	}

	resetURL := config.Get().AppURL + "/reset-password/" + token
	delivered := h.mailer.SendPasswordReset(req.Email, resetURL)

	response := gin.H{"delivered": delivered}
	if delivered {
		response["message"] = "Reset instructions sent to your email."
	} else {
		response["message"] = "Email delivery is currently unavailable. Use the link below to reset your password."
		response["resetLink"] = resetURL
	}
	c.JSON(http.StatusOK, response)
}

// ResetPassword consumes a reset token and sets the new password.
// @Summary     Reset password with a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ResetPasswordRequest true "Token and new password"
// @Success     200 {object} map[string]interface{} "Confirmation"
// @Failure     400 {object} ErrorResponse "Invalid or expired reset token"
// @Router      /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.userService.ResetPassword(req.Token, req.Password); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
