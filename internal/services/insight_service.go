package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pennywise/internal/analytics"
	"pennywise/internal/models"
	"pennywise/internal/recurrence"
)

const dashboardForecastPeriods = 3

// insightService runs the analytics engine over ledger data.
type insightService struct {
	ledger  TransactionServicer
	budgets BudgetServicer
}

// NewInsightService creates a new InsightServicer. budgets may be nil, in
// which case the dashboard omits budget progress.
func NewInsightService(ledger TransactionServicer, budgets BudgetServicer) InsightServicer {
	return &insightService{ledger: ledger, budgets: budgets}
}

// load returns the ledger restricted to the filter's creation range.
func (s *insightService) load(filter AnalyticsFilter) ([]models.Transaction, error) {
	all, err := s.ledger.GetAllTransactions()
	if err != nil {
		return nil, err
	}
	if filter.From == nil && filter.To == nil {
		return all, nil
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, invalid("to_date must not be before from_date")
	}

	out := make([]models.Transaction, 0, len(all))
	for _, t := range all {
		if filter.From != nil && t.CreatedAt.Before(recurrence.DayStart(*filter.From)) {
			continue
		}
		if filter.To != nil && t.CreatedAt.After(recurrence.DayEnd(*filter.To)) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *insightService) MonthlyTotals(filter AnalyticsFilter) ([]analytics.MonthAmount, error) {
	txs, err := s.load(filter)
	if err != nil {
		return nil, err
	}
	return analytics.MonthlyTotals(txs), nil
}

func (s *insightService) MonthlyIncomeVsExpenses(filter AnalyticsFilter) ([]analytics.MonthFlow, error) {
	txs, err := s.load(filter)
	if err != nil {
		return nil, err
	}
	return analytics.MonthlyIncomeVsExpenses(txs), nil
}

func (s *insightService) CategoryTrends(filter AnalyticsFilter) (analytics.TrendMatrix, error) {
	txs, err := s.load(filter)
	if err != nil {
		return analytics.TrendMatrix{}, err
	}
	return analytics.CategoryTrends(txs), nil
}

func (s *insightService) DailySpending(filter AnalyticsFilter) ([]analytics.DayAmount, error) {
	txs, err := s.load(filter)
	if err != nil {
		return nil, err
	}
	return analytics.DailySpending(txs), nil
}

func (s *insightService) TopCategories(filter AnalyticsFilter, n int) ([]analytics.CategoryAmount, error) {
	txs, err := s.load(filter)
	if err != nil {
		return nil, err
	}
	return analytics.TopCategories(txs, n), nil
}

func (s *insightService) MonthOverMonthChange(filter AnalyticsFilter) ([]analytics.MonthChange, error) {
	txs, err := s.load(filter)
	if err != nil {
		return nil, err
	}
	return analytics.MonthOverMonthChange(txs), nil
}

func (s *insightService) AverageSpending(filter AnalyticsFilter) (analytics.Averages, error) {
	txs, err := s.load(filter)
	if err != nil {
		return analytics.Averages{}, err
	}
	return analytics.AverageSpending(txs)
}

func (s *insightService) WeeklyPattern(filter AnalyticsFilter) (map[int]float64, error) {
	txs, err := s.load(filter)
	if err != nil {
		return nil, err
	}
	return analytics.WeeklyPattern(txs), nil
}

func (s *insightService) SeasonalPattern(filter AnalyticsFilter) (analytics.Seasonality, error) {
	txs, err := s.load(filter)
	if err != nil {
		return analytics.Seasonality{}, err
	}
	return analytics.SeasonalPattern(txs)
}

func (s *insightService) CategoryCorrelations(filter AnalyticsFilter) (analytics.Correlations, error) {
	txs, err := s.load(filter)
	if err != nil {
		return analytics.Correlations{}, err
	}
	return analytics.CategoryCorrelations(txs), nil
}

func (s *insightService) ForecastSpending(filter AnalyticsFilter, periods int) (analytics.Forecast, error) {
	txs, err := s.load(filter)
	if err != nil {
		return analytics.Forecast{}, err
	}
	return analytics.ForecastSpending(txs, periods)
}

func (s *insightService) SpendingInsights(filter AnalyticsFilter) (analytics.Insights, error) {
	txs, err := s.load(filter)
	if err != nil {
		return analytics.Insights{}, err
	}
	return analytics.SpendingInsights(txs), nil
}

func (s *insightService) NextMonthPrediction(filter AnalyticsFilter) (float64, error) {
	txs, err := s.load(filter)
	if err != nil {
		return 0, err
	}
	return analytics.NextMonthPrediction(txs)
}

// Dashboard loads the ledger once and computes the overview sections
// concurrently. Sections lacking history are reported in Unavailable instead
// of failing the whole report.
func (s *insightService) Dashboard(ctx context.Context, asOf time.Time) (*Dashboard, error) {
	txs, err := s.load(AnalyticsFilter{})
	if err != nil {
		return nil, err
	}

	d := &Dashboard{TransactionsLoaded: len(txs)}
	var mu sync.Mutex
	unavailable := func(section string, err error) error {
		if !errors.Is(err, analytics.ErrInsufficientData) {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		if d.Unavailable == nil {
			d.Unavailable = make(map[string]string)
		}
		d.Unavailable[section] = err.Error()
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.MonthlyTotals = analytics.MonthlyTotals(txs)
		d.IncomeVsExpenses = analytics.MonthlyIncomeVsExpenses(txs)
		return nil
	})
	g.Go(func() error {
		d.TopCategories = analytics.TopCategories(txs, analytics.DefaultTopN)
		d.MonthOverMonth = analytics.MonthOverMonthChange(txs)
		return nil
	})
	g.Go(func() error {
		d.Insights = analytics.SpendingInsights(txs)
		return nil
	})
	g.Go(func() error {
		avg, err := analytics.AverageSpending(txs)
		if err != nil {
			return unavailable("averages", err)
		}
		d.Averages = &avg
		return nil
	})
	g.Go(func() error {
		f, err := analytics.ForecastSpending(txs, dashboardForecastPeriods)
		if err != nil {
			return unavailable("forecast", err)
		}
		d.Forecast = &f
		return nil
	})
	g.Go(func() error {
		p, err := analytics.NextMonthPrediction(txs)
		if err != nil {
			return unavailable("prediction", err)
		}
		d.Prediction = &p
		return nil
	})
	if s.budgets != nil {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			progress, err := s.budgets.GetActiveBudgetsProgress(asOf)
			if err != nil {
				return err
			}
			d.ActiveBudgets = progress
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if d.ActiveBudgets == nil {
		d.ActiveBudgets = []BudgetProgress{}
	}
	return d, nil
}
