package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/models"
	"pennywise/internal/pagination"
	"pennywise/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
// notification_threshold is a fraction (0.8) or a percentage (80).
type CreateBudgetRequest struct {
	Category              string              `json:"category" binding:"required,max=100"`
	Amount                decimal.Decimal     `json:"amount" swaggertype:"string" example:"500.00"`
	Period                models.BudgetPeriod `json:"period" binding:"required,budget_period"`
	StartDate             string              `json:"start_date" binding:"required"`
	EndDate               *string             `json:"end_date"`
	NotificationThreshold *float64            `json:"notification_threshold" binding:"omitempty,notification_threshold"`
	Metadata              models.Metadata     `json:"metadata"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
// clear_end_date makes the budget open-ended.
type UpdateBudgetRequest struct {
	Category              *string              `json:"category" binding:"omitempty,max=100"`
	Amount                *decimal.Decimal     `json:"amount" swaggertype:"string" example:"500.00"`
	Period                *models.BudgetPeriod `json:"period" binding:"omitempty,budget_period"`
	StartDate             *string              `json:"start_date"`
	EndDate               *string              `json:"end_date"`
	ClearEndDate          bool                 `json:"clear_end_date"`
	NotificationThreshold *float64             `json:"notification_threshold" binding:"omitempty,notification_threshold"`
	Metadata              *models.Metadata     `json:"metadata"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a spending ceiling for a category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	start, err := parseOptionalDate("start_date", &req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(services.CreateBudgetInput{
		Category:              req.Category,
		Amount:                req.Amount,
		Period:                req.Period,
		StartDate:             *start,
		EndDate:               end,
		NotificationThreshold: req.NotificationThreshold,
		Metadata:              req.Metadata,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]any{"category": budget.Category, "amount": budget.Amount.String(), "period": budget.Period})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles the paginated budget listing.
// @Summary     Get budgets
// @Description Get a paginated list of budgets with optional filters
// @Tags        budgets
// @Produce     json
// @Param       period    query string false "Filter by period (monthly/yearly)"
// @Param       category  query string false "Filter by category"
// @Param       active_on query string false "Only budgets active on this date (RFC3339 or YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.BudgetFilter
	if v := c.Query("period"); v != "" {
		p := models.BudgetPeriod(v)
		if !p.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be 'monthly' or 'yearly'"))
			return
		}
		filter.Period = &p
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	activeOn, err := parseDateParam(c, "active_on")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.ActiveOn = activeOn

	result, err := h.budgetService.GetBudgets(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListBudgets handles listing every budget.
// @Summary     Get all budgets
// @Description Get every budget without pagination
// @Tags        budgets
// @Produce     json
// @Success     200 {array}  models.Budget "Budgets"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/all [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	budgets, err := h.budgetService.ListBudgets()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// ListActiveBudgets handles listing the budgets in force on a date.
// @Summary     Get active budgets
// @Description Get the budgets whose date range contains as_of (default today)
// @Tags        budgets
// @Produce     json
// @Param       as_of query string false "Reference date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {array}  models.Budget "Active budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/active [get]
func (h *BudgetHandler) ListActiveBudgets(c *gin.Context) {
	asOf, err := asOfParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.ListActiveBudgets(asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetBudgetsOverview handles the progress of every active budget.
// @Summary     Get budgets overview
// @Description Get spending progress for every budget active on as_of (default today)
// @Tags        budgets
// @Produce     json
// @Param       as_of query string false "Reference date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {array}  services.BudgetProgress "Budget progress"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/overview [get]
func (h *BudgetHandler) GetBudgetsOverview(c *gin.Context) {
	asOf, err := asOfParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.budgetService.GetActiveBudgetsProgress(asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": progress})
}

// asOfParam reads the optional as_of query parameter. A zero time lets the
// service use today.
func asOfParam(c *gin.Context) (time.Time, error) {
	asOf, err := parseDateParam(c, "as_of")
	if err != nil || asOf == nil {
		return time.Time{}, err
	}
	return *asOf, nil
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a specific budget by ID
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating an existing budget.
// @Summary     Update budget
// @Description Update an existing budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated budget details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or budget ID"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.BudgetUpdateFields{
		Category:              req.Category,
		Amount:                req.Amount,
		Period:                req.Period,
		ClearEndDate:          req.ClearEndDate,
		NotificationThreshold: req.NotificationThreshold,
		Metadata:              req.Metadata,
	}
	if fields.StartDate, err = parseOptionalDate("start_date", req.StartDate); err != nil {
		respondWithError(c, err)
		return
	}
	if fields.EndDate, err = parseOptionalDate("end_date", req.EndDate); err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.UpdateBudget(budgetID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]any{}
	if req.Category != nil {
		changes["category"] = *req.Category
	}
	if req.Amount != nil {
		changes["amount"] = req.Amount.String()
	}
	if req.Period != nil {
		changes["period"] = *req.Period
	}
	if req.ClearEndDate {
		changes["end_date"] = nil
	}
	h.auditService.Log("UPDATE_BUDGET", "budget", budgetID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget by ID (soft delete)
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// GetBudgetProgress handles retrieving the spending progress for a budget.
// @Summary     Get budget progress
// @Description Get spending against a budget from its start date up to as_of (default today)
// @Tags        budgets
// @Produce     json
// @Param       id    path  string true  "Budget ID"
// @Param       as_of query string false "Reference date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} services.BudgetProgress "Budget progress"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/progress [get]
func (h *BudgetHandler) GetBudgetProgress(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asOf, err := asOfParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.budgetService.GetBudgetProgress(budgetID, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
