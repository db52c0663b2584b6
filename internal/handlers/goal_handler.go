package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"budgetmate/internal/models"
	"budgetmate/internal/services"
)

// GoalHandler handles goal CRUD and contribution endpoints.
type GoalHandler struct {
	goalService services.GoalServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the payload for creating a goal.
type CreateGoalRequest struct {
	Name         string          `json:"name" binding:"required,max=150"`
	TargetAmount decimal.Decimal `json:"targetAmount" binding:"required"`
	Description  string          `json:"description" binding:"omitempty,max=255"`
	EndDate      *string         `json:"endDate" binding:"omitempty,dateonly"`
}

// UpdateGoalRequest represents a partial goal update payload.
type UpdateGoalRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=150"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	Description  *string          `json:"description" binding:"omitempty,max=255"`
	EndDate      *string          `json:"endDate" binding:"omitempty,dateonly"`
	Status       *string          `json:"status" binding:"omitempty,goal_status"`
}

// ContributionRequest represents the payload for adding or editing a contribution.
type ContributionRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	ContributionDate string          `json:"contributionDate" binding:"required,dateonly"`
}

// ListGoals returns the user's goals with live saved amounts.
// @Summary     List goals
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Goals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetUserGoals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// CreateGoal creates a new savings goal.
// @Summary     Create a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal data"
// @Success     201 {object} map[string]interface{} "Created goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	var endDate *time.Time
	if req.EndDate != nil {
		d := parseDate(*req.EndDate)
		endDate = &d
	}

	goal, err := h.goalService.CreateGoal(userID, req.Name, req.TargetAmount, req.Description, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// UpdateGoal applies a partial update to a goal.
// @Summary     Update a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to change"
// @Success     200 {object} map[string]interface{} "Updated goal"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	updates := services.GoalUpdate{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Description:  req.Description,
	}
	if req.EndDate != nil {
		d := parseDate(*req.EndDate)
		updates.EndDate = &d
	}
	if req.Status != nil {
		status := models.GoalStatus(*req.Status)
		updates.Status = &status
	}

	goal, err := h.goalService.UpdateGoal(userID, goalID, updates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal removes a goal and its contribution history.
// @Summary     Delete a goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Success     200 {object} map[string]interface{} "Confirmation"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
}

// AddContribution records a deposit toward a goal.
// @Summary     Add a contribution
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int true "Goal ID"
// @Param       request body ContributionRequest true "Contribution data"
// @Success     201 {object} map[string]interface{} "Refreshed goal"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id}/contributions [post]
func (h *GoalHandler) AddContribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	goal, err := h.goalService.AddContribution(userID, goalID, req.Amount, parseDate(req.ContributionDate))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// UpdateContribution changes a contribution's amount and date.
// @Summary     Edit a contribution
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id             path int true "Goal ID"
// @Param       contributionId path int true "Contribution ID"
// @Param       request        body ContributionRequest true "New amount and date"
// @Success     200 {object} map[string]interface{} "Refreshed goal"
// @Failure     404 {object} ErrorResponse "Goal or contribution not found"
// @Router      /goals/{id}/contributions/{contributionId} [put]
func (h *GoalHandler) UpdateContribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	contributionID, err := parsePathID(c, "contributionId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	goal, err := h.goalService.UpdateContribution(userID, goalID, contributionID, req.Amount, parseDate(req.ContributionDate))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteContribution removes a contribution and refunds it to the ledger.
// @Summary     Delete a contribution
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id             path int true "Goal ID"
// @Param       contributionId path int true "Contribution ID"
// @Success     200 {object} map[string]interface{} "Refreshed goal and confirmation"
// @Failure     404 {object} ErrorResponse "Goal or contribution not found"
// @Router      /goals/{id}/contributions/{contributionId} [delete]
func (h *GoalHandler) DeleteContribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	contributionID, err := parsePathID(c, "contributionId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.DeleteContribution(userID, goalID, contributionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal, "message": "Contribution deleted"})
}

// ListContributions lists a goal's contribution history.
// @Summary     List contributions
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Success     200 {object} map[string]interface{} "Contributions"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id}/contributions [get]
func (h *GoalHandler) ListContributions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	contributions, err := h.goalService.GetContributions(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contributions": contributions})
}
