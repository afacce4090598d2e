package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outgo/internal/dates"
	apperrors "outgo/internal/errors"
	"outgo/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService  services.BudgetServicer
	summaryService services.SummaryServicer
	auditService   services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, summaryService services.SummaryServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{
		budgetService:  budgetService,
		summaryService: summaryService,
		auditService:   auditService,
	}
}

// SetBudgetRequest represents the request payload for setting a monthly budget.
type SetBudgetRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"omitempty,iso4217"`
}

// parseMonth validates the month path parameter.
func parseMonth(c *gin.Context) (string, error) {
	month := c.Param("month")
	if !dates.ValidMonth(month) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be in YYYY-MM format")
	}
	return month, nil
}

// SetBudget creates or replaces the budget for a month.
// @Summary     Set a monthly budget
// @Description Create or overwrite the budget for a month; setting it twice keeps one record
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month path string true "Month (YYYY-MM)"
// @Param       request body SetBudgetRequest true "Budget details"
// @Success     200 {object} models.Budget "Budget set"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{month} [put]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpsertBudget(userID, month, req.Amount, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"month": month, "amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudget returns the budget for a month.
// @Summary     Get a monthly budget
// @Description Get the budget set for a month
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       month path string true "Month (YYYY-MM)"
// @Success     200 {object} models.Budget "Budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No budget set"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{month} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetForMonth(userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if budget == nil {
		respondWithError(c, apperrors.ErrBudgetNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudgetStatus compares the month's spending against its budget. A pure
// read: alerts fire from expense writes, never from polling this endpoint.
// @Summary     Get budget status
// @Description Get spending versus budget for a month, in the budget's currency
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       month path string true "Month (YYYY-MM)"
// @Success     200 {object} services.BudgetStatus "Budget status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No budget set"
// @Failure     502 {object} ErrorResponse "Exchange rate lookup failed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{month}/status [get]
func (h *BudgetHandler) GetBudgetStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status, err := h.summaryService.GetBudgetStatus(c.Request.Context(), userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if status == nil {
		respondWithError(c, apperrors.ErrBudgetNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// DeleteBudget removes the budget for a month.
// @Summary     Delete a monthly budget
// @Description Remove the budget set for a month
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       month path string true "Month (YYYY-MM)"
// @Success     204 "Budget deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No budget set"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{month} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, month); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", userID+"_"+month, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
