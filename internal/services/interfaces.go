package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pennywise/internal/analytics"
	"pennywise/internal/models"
	"pennywise/internal/pagination"
)

// CreateTransactionInput carries the fields accepted when recording a
// transaction. Dates are ignored for non-recurring cycles. CreatedAt
// backdates imported entries and defaults to the service clock.
type CreateTransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        models.TransactionType
	Category    string
	Cycle       models.Cycle
	StartDate   *time.Time
	EndDate     *time.Time
	DueDate     *time.Time
	CreatedAt   *time.Time
	Metadata    models.Metadata
}

// TransactionUpdateFields lists the mutable columns of a transaction. Nil
// fields are left unchanged.
type TransactionUpdateFields struct {
	Description *string
	Amount      *decimal.Decimal
	Type        *models.TransactionType
	Category    *string
	Cycle       *models.Cycle
	StartDate   *time.Time
	EndDate     *time.Time
	DueDate     *time.Time
	Metadata    *models.Metadata
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Category *string
	Cycle    *models.Cycle
}

// PeriodTransaction is a transaction together with the amount it contributes
// to a queried window.
type PeriodTransaction struct {
	models.Transaction
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
}

// SummaryFilter narrows SummaryByCategory. From and To must be set together;
// when they are, totals use the amount each transaction contributes to the
// window instead of its raw amount.
type SummaryFilter struct {
	From     *time.Time
	To       *time.Time
	Type     *models.TransactionType
	Category string
}

// UpcomingPayment is a recurring transaction and the date it next falls due.
type UpcomingPayment struct {
	Transaction models.Transaction `json:"transaction"`
	NextDate    time.Time          `json:"next_date"`
}

// TransactionServicer defines the contract for the transaction ledger.
type TransactionServicer interface {
	CreateTransaction(input CreateTransactionInput) (*models.Transaction, error)
	GetAllTransactions() ([]models.Transaction, error)
	GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(id string) (*models.Transaction, error)
	GetTransactionsForPeriod(windowStart, windowEnd time.Time) ([]PeriodTransaction, error)
	UpdateTransaction(id string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(id string) error
	SummaryByCategory(filter SummaryFilter) (map[string]decimal.Decimal, error)
	GetUpcomingPayments(asOf time.Time, days int) ([]UpcomingPayment, error)
}

// CategoryUsage summarises how a category is used across the ledger.
type CategoryUsage struct {
	Category         string          `json:"category"`
	TransactionCount int64           `json:"transaction_count"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	TotalIncome      decimal.Decimal `json:"total_income"`
}

// CategoryServicer defines the contract for category maintenance. Categories
// are the distinct category values found on transactions.
type CategoryServicer interface {
	GetCategories() ([]string, error)
	GetCategoryUsage(category string) (*CategoryUsage, error)
	RenameCategory(oldName, newName string) (int64, error)
	DeleteCategory(category string) (int64, error)
}

// CreateBudgetInput carries the fields accepted when creating a budget. A
// nil NotificationThreshold uses the default.
type CreateBudgetInput struct {
	Category              string
	Amount                decimal.Decimal
	Period                models.BudgetPeriod
	StartDate             time.Time
	EndDate               *time.Time
	NotificationThreshold *float64
	Metadata              models.Metadata
}

// BudgetUpdateFields lists the mutable columns of a budget. ClearEndDate
// makes the budget open-ended.
type BudgetUpdateFields struct {
	Category              *string
	Amount                *decimal.Decimal
	Period                *models.BudgetPeriod
	StartDate             *time.Time
	EndDate               *time.Time
	ClearEndDate          bool
	NotificationThreshold *float64
	Metadata              *models.Metadata
}

// BudgetFilter holds optional filter parameters for listing budgets.
type BudgetFilter struct {
	Period   *models.BudgetPeriod
	Category *string
	ActiveOn *time.Time
}

// BudgetProgress contains spending vs budget data for a budget.
type BudgetProgress struct {
	Budget                models.Budget       `json:"budget"`
	PeriodStart           time.Time           `json:"period_start"`
	PeriodEnd             time.Time           `json:"period_end"`
	Budgeted              decimal.Decimal     `json:"budgeted"`
	Spent                 decimal.Decimal     `json:"spent"`
	Remaining             decimal.Decimal     `json:"remaining"`
	PercentageSpent       float64             `json:"percentage_spent"`
	Status                models.BudgetStatus `json:"status"`
	NotificationThreshold float64             `json:"notification_threshold"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(input CreateBudgetInput) (*models.Budget, error)
	ListBudgets() ([]models.Budget, error)
	GetBudgets(page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error)
	ListActiveBudgets(asOf time.Time) ([]models.Budget, error)
	GetBudgetByID(id string) (*models.Budget, error)
	GetBudgetProgress(id string, asOf time.Time) (*BudgetProgress, error)
	GetActiveBudgetsProgress(asOf time.Time) ([]BudgetProgress, error)
	UpdateBudget(id string, fields BudgetUpdateFields) (*models.Budget, error)
	DeleteBudget(id string) error
}

// AnalyticsFilter restricts analytics to transactions created in a range.
// Either bound may be nil.
type AnalyticsFilter struct {
	From *time.Time
	To   *time.Time
}

// Dashboard bundles the analytics shown together on the overview screen.
// Sections that need more history are nil and listed in Unavailable.
type Dashboard struct {
	MonthlyTotals      []analytics.MonthAmount    `json:"monthly_totals"`
	IncomeVsExpenses   []analytics.MonthFlow      `json:"income_vs_expenses"`
	TopCategories      []analytics.CategoryAmount `json:"top_categories"`
	MonthOverMonth     []analytics.MonthChange    `json:"month_over_month"`
	Averages           *analytics.Averages        `json:"averages"`
	Forecast           *analytics.Forecast        `json:"forecast"`
	Insights           analytics.Insights         `json:"insights"`
	Prediction         *float64                   `json:"prediction"`
	ActiveBudgets      []BudgetProgress           `json:"active_budgets"`
	Unavailable        map[string]string          `json:"unavailable,omitempty"`
	TransactionsLoaded int                        `json:"transactions_loaded"`
}

// InsightServicer exposes the analytics engine over ledger data.
type InsightServicer interface {
	MonthlyTotals(filter AnalyticsFilter) ([]analytics.MonthAmount, error)
	MonthlyIncomeVsExpenses(filter AnalyticsFilter) ([]analytics.MonthFlow, error)
	CategoryTrends(filter AnalyticsFilter) (analytics.TrendMatrix, error)
	DailySpending(filter AnalyticsFilter) ([]analytics.DayAmount, error)
	TopCategories(filter AnalyticsFilter, n int) ([]analytics.CategoryAmount, error)
	MonthOverMonthChange(filter AnalyticsFilter) ([]analytics.MonthChange, error)
	AverageSpending(filter AnalyticsFilter) (analytics.Averages, error)
	WeeklyPattern(filter AnalyticsFilter) (map[int]float64, error)
	SeasonalPattern(filter AnalyticsFilter) (analytics.Seasonality, error)
	CategoryCorrelations(filter AnalyticsFilter) (analytics.Correlations, error)
	ForecastSpending(filter AnalyticsFilter, periods int) (analytics.Forecast, error)
	SpendingInsights(filter AnalyticsFilter) (analytics.Insights, error)
	NextMonthPrediction(filter AnalyticsFilter) (float64, error)
	Dashboard(ctx context.Context, asOf time.Time) (*Dashboard, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
