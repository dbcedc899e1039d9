package analytics

import (
	"pennywise/internal/models"
)

const outlierSigmas = 2

// UnusualTransaction is an expense well above the typical expense amount.
type UnusualTransaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
}

// CategoryStats summarises the expenses of one category.
type CategoryStats struct {
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// Insights is a summary of expense behaviour.
type Insights struct {
	TotalSpending       float64                  `json:"total_spending"`
	AvgTransaction      float64                  `json:"avg_transaction"`
	SpendingTrend       []MonthChange            `json:"spending_trend"`
	UnusualTransactions []UnusualTransaction     `json:"unusual_transactions"`
	CategoryBreakdown   map[string]CategoryStats `json:"category_breakdown"`
}

// SpendingInsights summarises expenses. An expense is unusual when its amount
// exceeds the mean by more than two sample standard deviations.
func SpendingInsights(txs []models.Transaction) Insights {
	insights := Insights{
		SpendingTrend:       MonthOverMonthChange(txs),
		UnusualTransactions: []UnusualTransaction{},
		CategoryBreakdown:   map[string]CategoryStats{},
	}

	var amounts []float64
	for i := range txs {
		tx := &txs[i]
		if !isExpense(tx) {
			continue
		}
		a := amountOf(tx)
		amounts = append(amounts, a)

		stats := insights.CategoryBreakdown[tx.Category]
		stats.Sum += a
		stats.Count++
		insights.CategoryBreakdown[tx.Category] = stats
	}
	if len(amounts) == 0 {
		return insights
	}

	for cat, stats := range insights.CategoryBreakdown {
		stats.Mean = stats.Sum / float64(stats.Count)
		insights.CategoryBreakdown[cat] = stats
	}

	insights.TotalSpending = sum(amounts)
	insights.AvgTransaction = mean(amounts)

	if len(amounts) < 2 {
		return insights
	}
	limit := insights.AvgTransaction + outlierSigmas*sampleStdDev(amounts)
	for i := range txs {
		tx := &txs[i]
		if !isExpense(tx) || amountOf(tx) <= limit {
			continue
		}
		insights.UnusualTransactions = append(insights.UnusualTransactions, UnusualTransaction{
			ID:          tx.ID,
			Date:        tx.CreatedAt.UTC().Format(dayLayout),
			Description: tx.Description,
			Category:    tx.Category,
			Amount:      amountOf(tx),
		})
	}
	return insights
}
