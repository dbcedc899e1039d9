package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pennywise/internal/clock"
	apperrors "pennywise/internal/errors"
	"pennywise/internal/models"
	"pennywise/internal/pagination"
	"pennywise/internal/recurrence"
	"pennywise/internal/uuid"
)

var hundred = decimal.NewFromInt(100)

// budgetService handles budget-related business logic.
type budgetService struct {
	db     *gorm.DB
	ledger TransactionServicer
	clock  clock.Clock
}

// NewBudgetService creates a new BudgetServicer. Spending is read through
// the ledger so recurring transactions count with their window amount.
func NewBudgetService(db *gorm.DB, ledger TransactionServicer, clk clock.Clock) BudgetServicer {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &budgetService{db: db, ledger: ledger, clock: clk}
}

// CreateBudget creates a new budget for a category.
func (s *budgetService) CreateBudget(input CreateBudgetInput) (*models.Budget, error) {
	threshold := models.DefaultNotificationThreshold
	if input.NotificationThreshold != nil {
		threshold = *input.NotificationThreshold
	}

	budget := &models.Budget{
		Category:              strings.TrimSpace(input.Category),
		Amount:                input.Amount,
		Period:                input.Period,
		StartDate:             input.StartDate,
		EndDate:               input.EndDate,
		NotificationThreshold: threshold,
		Metadata:              input.Metadata,
	}
	if err := normalizeBudget(budget); err != nil {
		return nil, err
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, storageError("create budget", err)
	}
	return budget, nil
}

func normalizeBudget(b *models.Budget) error {
	if b.Category == "" {
		return invalid("category is required")
	}
	if !b.Amount.IsPositive() {
		return invalid("amount must be greater than zero")
	}
	if !b.Period.Valid() {
		return invalid("period must be monthly or yearly")
	}
	if b.StartDate.IsZero() {
		return invalid("start_date is required")
	}
	b.StartDate = recurrence.DayStart(b.StartDate)
	if b.EndDate != nil {
		end := recurrence.DayStart(*b.EndDate)
		if end.Before(b.StartDate) {
			return invalid("end_date must not be before start_date")
		}
		b.EndDate = &end
	}

	threshold, err := normalizeThreshold(b.NotificationThreshold)
	if err != nil {
		return err
	}
	b.NotificationThreshold = threshold
	return nil
}

// normalizeThreshold accepts a fraction in [0, 1] or a percentage in (1, 100].
func normalizeThreshold(v float64) (float64, error) {
	switch {
	case v >= 0 && v <= 1:
		return v, nil
	case v > 1 && v <= 100:
		return v / 100, nil
	default:
		return 0, invalid("notification_threshold must be a fraction between 0 and 1 or a percentage up to 100")
	}
}

// ListBudgets returns every budget ordered by category, period and start.
func (s *budgetService) ListBudgets() ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Order("category, period, start_date").Find(&budgets).Error; err != nil {
		return nil, storageError("list budgets", err)
	}
	return budgets, nil
}

// GetBudgets returns a paginated list of budgets with optional filters.
func (s *budgetService) GetBudgets(page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{})
	if filter.Period != nil {
		base = base.Where("period = ?", *filter.Period)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.ActiveOn != nil {
		day := recurrence.DayStart(*filter.ActiveOn)
		base = base.Where("start_date <= ? AND (end_date IS NULL OR end_date >= ?)", day, day)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, storageError("count budgets", err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).
		Order("category, period, start_date").
		Find(&budgets).Error; err != nil {
		return nil, storageError("list budgets", err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListActiveBudgets returns the budgets whose date range contains asOf.
func (s *budgetService) ListActiveBudgets(asOf time.Time) ([]models.Budget, error) {
	asOf = s.today(asOf)
	all, err := s.ListBudgets()
	if err != nil {
		return nil, err
	}
	active := make([]models.Budget, 0, len(all))
	for _, b := range all {
		if b.ActiveOn(asOf) {
			active = append(active, b)
		}
	}
	return active, nil
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(id string) (*models.Budget, error) {
	if !uuid.IsValid(id) {
		return nil, apperrors.ErrBudgetNotFound
	}
	var budget models.Budget
	if err := s.db.Where("id = ?", id).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, storageError("get budget", err)
	}
	return &budget, nil
}

// GetBudgetProgress compares expenses in the budget's category, from its
// start date through asOf or its end date, whichever comes first, against
// the budgeted amount.
func (s *budgetService) GetBudgetProgress(id string, asOf time.Time) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}
	return s.progress(budget, s.today(asOf))
}

// GetActiveBudgetsProgress reports progress for every budget active on asOf.
func (s *budgetService) GetActiveBudgetsProgress(asOf time.Time) ([]BudgetProgress, error) {
	asOf = s.today(asOf)
	active, err := s.ListActiveBudgets(asOf)
	if err != nil {
		return nil, err
	}
	out := make([]BudgetProgress, 0, len(active))
	for i := range active {
		p, err := s.progress(&active[i], asOf)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// today substitutes the service clock for a zero asOf.
func (s *budgetService) today(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return s.clock.Now()
	}
	return asOf
}

func (s *budgetService) progress(budget *models.Budget, asOf time.Time) (*BudgetProgress, error) {
	periodStart := recurrence.DayStart(budget.StartDate)
	periodEnd := recurrence.DayStart(asOf)
	if budget.EndDate != nil && budget.EndDate.Before(periodEnd) {
		periodEnd = recurrence.DayStart(*budget.EndDate)
	}

	spent := decimal.Zero
	if !periodEnd.Before(periodStart) {
		expense := models.TransactionTypeExpense
		totals, err := s.ledger.SummaryByCategory(SummaryFilter{
			From:     &periodStart,
			To:       &periodEnd,
			Type:     &expense,
			Category: budget.Category,
		})
		if err != nil {
			return nil, err
		}
		spent = totals[budget.Category]
	}

	var pct decimal.Decimal
	if budget.Amount.IsPositive() {
		pct = spent.Div(budget.Amount).Mul(hundred)
	}

	status := models.BudgetStatusOK
	switch {
	case pct.GreaterThan(hundred):
		status = models.BudgetStatusOverBudget
	case pct.GreaterThanOrEqual(decimal.NewFromFloat(budget.NotificationThreshold).Mul(hundred)):
		status = models.BudgetStatusWarning
	}

	return &BudgetProgress{
		Budget:                *budget,
		PeriodStart:           periodStart,
		PeriodEnd:             periodEnd,
		Budgeted:              budget.Amount,
		Spent:                 spent,
		Remaining:             budget.Amount.Sub(spent),
		PercentageSpent:       pct.InexactFloat64(),
		Status:                status,
		NotificationThreshold: budget.NotificationThreshold,
	}, nil
}

// UpdateBudget applies fields to a copy of the stored budget, re-validates
// it and only then writes it.
func (s *budgetService) UpdateBudget(id string, fields BudgetUpdateFields) (*models.Budget, error) {
	existing, err := s.GetBudgetByID(id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if fields.Category != nil {
		merged.Category = strings.TrimSpace(*fields.Category)
	}
	if fields.Amount != nil {
		merged.Amount = *fields.Amount
	}
	if fields.Period != nil {
		merged.Period = *fields.Period
	}
	if fields.StartDate != nil {
		merged.StartDate = *fields.StartDate
	}
	if fields.EndDate != nil {
		merged.EndDate = fields.EndDate
	}
	if fields.ClearEndDate {
		merged.EndDate = nil
	}
	if fields.NotificationThreshold != nil {
		merged.NotificationThreshold = *fields.NotificationThreshold
	}
	if fields.Metadata != nil {
		merged.Metadata = *fields.Metadata
	}

	if err := normalizeBudget(&merged); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"category":               merged.Category,
		"amount":                 merged.Amount,
		"period":                 merged.Period,
		"start_date":             merged.StartDate,
		"end_date":               merged.EndDate,
		"notification_threshold": merged.NotificationThreshold,
		"metadata":               merged.Metadata,
	}
	if err := s.db.Model(existing).Updates(updates).Error; err != nil {
		return nil, storageError("update budget", err)
	}

	return s.GetBudgetByID(id)
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(id string) error {
	budget, err := s.GetBudgetByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return storageError("delete budget", err)
	}
	return nil
}
