package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pennywise/internal/analytics"
	apperrors "pennywise/internal/errors"
	"pennywise/internal/services"
)

const defaultForecastPeriods = 3

// AnalyticsHandler serves the spending analytics. Every endpoint accepts
// optional from_date and to_date parameters restricting the transactions
// analysed by creation date.
type AnalyticsHandler struct {
	insightService services.InsightServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(insightService services.InsightServicer) *AnalyticsHandler {
	return &AnalyticsHandler{insightService: insightService}
}

func analyticsFilter(c *gin.Context) (services.AnalyticsFilter, error) {
	var filter services.AnalyticsFilter
	var err error
	if filter.From, err = parseDateParam(c, "from_date"); err != nil {
		return filter, err
	}
	if filter.To, err = parseDateParam(c, "to_date"); err != nil {
		return filter, err
	}
	return filter, nil
}

func intParam(c *gin.Context, name string, fallback int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, name+" must be a positive integer")
	}
	return n, nil
}

// GetMonthlyTotals returns expenses per month.
// @Summary     Monthly totals
// @Description Total expenses per calendar month
// @Tags        analytics
// @Produce     json
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {array}  analytics.MonthAmount "Monthly totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/monthly-totals [get]
func (h *AnalyticsHandler) GetMonthlyTotals(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.MonthlyTotals(filter)
	respondWithAnalysis(c, "monthly_totals", result, err)
}

// GetIncomeVsExpenses returns income and expenses per month.
// @Summary     Income vs expenses
// @Description Income, expenses and net per calendar month
// @Tags        analytics
// @Produce     json
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {array}  analytics.MonthFlow "Monthly flows"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/income-vs-expenses [get]
func (h *AnalyticsHandler) GetIncomeVsExpenses(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.MonthlyIncomeVsExpenses(filter)
	respondWithAnalysis(c, "income_vs_expenses", result, err)
}

// GetCategoryTrends returns expenses per category per month.
// @Summary     Category trends
// @Description Expense matrix of months by categories
// @Tags        analytics
// @Produce     json
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} analytics.TrendMatrix "Category trends"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/category-trends [get]
func (h *AnalyticsHandler) GetCategoryTrends(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.CategoryTrends(filter)
	respondWithAnalysis(c, "category_trends", result, err)
}

// GetDailySpending returns expenses per day.
// @Summary     Daily spending
// @Description Total expenses per day
// @Tags        analytics
// @Produce     json
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {array}  analytics.DayAmount "Daily totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/daily-spending [get]
func (h *AnalyticsHandler) GetDailySpending(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.DailySpending(filter)
	respondWithAnalysis(c, "daily_spending", result, err)
}

// GetTopCategories returns the categories with the highest expenses.
// @Summary     Top categories
// @Description The n categories with the highest total expenses
// @Tags        analytics
// @Produce     json
// @Param       n         query int    false "Number of categories (default 5)"
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {array}  analytics.CategoryAmount "Top categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/top-categories [get]
func (h *AnalyticsHandler) GetTopCategories(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	n, err := intParam(c, "n", analytics.DefaultTopN)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.TopCategories(filter, n)
	respondWithAnalysis(c, "top_categories", result, err)
}

// GetMonthOverMonth returns the percentage change of monthly expenses.
// @Summary     Month over month change
// @Description Percentage change of expenses against the previous month
// @Tags        analytics
// @Produce     json
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {array}  analytics.MonthChange "Monthly changes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/month-over-month [get]
func (h *AnalyticsHandler) GetMonthOverMonth(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.MonthOverMonthChange(filter)
	respondWithAnalysis(c, "month_over_month", result, err)
}

// GetAverages returns average daily, weekly and monthly spending.
// @Summary     Average spending
// @Description Mean expenses per active day, week and month
// @Tags        analytics
// @Produce     json
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} analytics.Averages "Averages, or an INSUFFICIENT_DATA error object"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/averages [get]
func (h *AnalyticsHandler) GetAverages(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.AverageSpending(filter)
	respondWithAnalysis(c, "averages", result, err)
}

// GetWeeklyPattern returns mean spending per weekday.
// @Summary     Weekly pattern
// @Description Mean expense per weekday, Monday = 0
// @Tags        analytics
// @Produce     json
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} map[int]float64 "Weekday means"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/weekly-pattern [get]
func (h *AnalyticsHandler) GetWeeklyPattern(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.WeeklyPattern(filter)
	respondWithAnalysis(c, "weekly_pattern", result, err)
}

// GetSeasonalPattern returns the per-month spending profile.
// @Summary     Seasonal pattern
// @Description Mean spending per calendar month and the high-spending months. Needs a year of history.
// @Tags        analytics
// @Produce     json
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} analytics.Seasonality "Seasonality, or an INSUFFICIENT_DATA error object"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/seasonal-pattern [get]
func (h *AnalyticsHandler) GetSeasonalPattern(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.SeasonalPattern(filter)
	respondWithAnalysis(c, "seasonal_pattern", result, err)
}

// GetCorrelations returns correlations between monthly category expenses.
// @Summary     Category correlations
// @Description Pearson correlation of monthly expenses between categories and the strongest pairs
// @Tags        analytics
// @Produce     json
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} analytics.Correlations "Correlations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/correlations [get]
func (h *AnalyticsHandler) GetCorrelations(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.CategoryCorrelations(filter)
	respondWithAnalysis(c, "correlations", result, err)
}

// GetForecast returns the monthly spending forecast.
// @Summary     Spending forecast
// @Description Forecast of monthly expenses with a 95% band. Needs four months of history.
// @Tags        analytics
// @Produce     json
// @Param       periods   query int    false "Months to forecast (default 3, max 12)"
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} analytics.Forecast "Forecast, or an INSUFFICIENT_DATA error object"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/forecast [get]
func (h *AnalyticsHandler) GetForecast(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	periods, err := intParam(c, "periods", defaultForecastPeriods)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.ForecastSpending(filter, periods)
	respondWithAnalysis(c, "forecast", result, err)
}

// GetInsights returns headline spending statistics.
// @Summary     Spending insights
// @Description Totals, trend, unusual transactions and per-category statistics
// @Tags        analytics
// @Produce     json
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} analytics.Insights "Insights"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/insights [get]
func (h *AnalyticsHandler) GetInsights(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.SpendingInsights(filter)
	respondWithAnalysis(c, "insights", result, err)
}

// GetPrediction returns the next month's expected spending.
// @Summary     Next month prediction
// @Description Expected expenses for the month after the last one recorded
// @Tags        analytics
// @Produce     json
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Success     200 {number} number "Prediction, or an INSUFFICIENT_DATA error object"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/prediction [get]
func (h *AnalyticsHandler) GetPrediction(c *gin.Context) {
	filter, err := analyticsFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	result, err := h.insightService.NextMonthPrediction(filter)
	respondWithAnalysis(c, "prediction", result, err)
}

// GetDashboard returns the overview sections in one response.
// @Summary     Dashboard
// @Description Overview of spending, forecast, insights and active budget progress. Sections lacking history are listed under unavailable.
// @Tags        analytics
// @Produce     json
// @Param       as_of query string false "Reference date for budget progress (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} services.Dashboard "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	asOf, err := asOfParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.insightService.Dashboard(c.Request.Context(), asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard})
}
