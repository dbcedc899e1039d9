package analytics

import (
	"sort"
	"time"

	"pennywise/internal/models"
)

// DefaultTopN is the number of categories TopCategories returns for n <= 0.
const DefaultTopN = 5

// MonthFlow is income and expenses for one month.
type MonthFlow struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// TrendMatrix is a dense month x category matrix of expense totals.
// Values[i][j] is the total for Months[i] and Categories[j].
type TrendMatrix struct {
	Months     []string    `json:"months"`
	Categories []string    `json:"categories"`
	Values     [][]float64 `json:"values"`
}

// MonthChange is the fractional change of a month against the previous one.
type MonthChange struct {
	Month  string  `json:"month"`
	Change float64 `json:"change"`
}

// MonthlyTotals sums every transaction, income and expense alike, by
// calendar month of creation.
func MonthlyTotals(txs []models.Transaction) []MonthAmount {
	keys, values := bucketSeries(txs, nil, monthOf, nextMonth)
	return toMonthAmounts(keys, values)
}

// MonthlyIncomeVsExpenses splits each month's totals by type. Months without
// one of the types report 0 for it.
func MonthlyIncomeVsExpenses(txs []models.Transaction) []MonthFlow {
	keys, _ := bucketSeries(txs, nil, monthOf, nextMonth)
	if len(keys) == 0 {
		return []MonthFlow{}
	}

	index := make(map[time.Time]int, len(keys))
	out := make([]MonthFlow, len(keys))
	for i, k := range keys {
		index[k] = i
		out[i] = MonthFlow{Month: k.Format(monthLayout)}
	}
	for i := range txs {
		tx := &txs[i]
		row := &out[index[monthOf(tx.CreatedAt)]]
		switch tx.Type {
		case models.TransactionTypeIncome:
			row.Income += amountOf(tx)
		case models.TransactionTypeExpense:
			row.Expenses += amountOf(tx)
		}
	}
	return out
}

// CategoryTrends builds the expense matrix with categories sorted by name.
func CategoryTrends(txs []models.Transaction) TrendMatrix {
	keys, _ := monthlyExpenses(txs)
	trends := TrendMatrix{Months: []string{}, Categories: []string{}, Values: [][]float64{}}
	if len(keys) == 0 {
		return trends
	}

	catSet := make(map[string]struct{})
	for i := range txs {
		if isExpense(&txs[i]) {
			catSet[txs[i].Category] = struct{}{}
		}
	}
	for c := range catSet {
		trends.Categories = append(trends.Categories, c)
	}
	sort.Strings(trends.Categories)
	col := make(map[string]int, len(trends.Categories))
	for j, c := range trends.Categories {
		col[c] = j
	}

	row := make(map[time.Time]int, len(keys))
	for i, k := range keys {
		row[k] = i
		trends.Months = append(trends.Months, k.Format(monthLayout))
		trends.Values = append(trends.Values, make([]float64, len(trends.Categories)))
	}
	for i := range txs {
		tx := &txs[i]
		if !isExpense(tx) {
			continue
		}
		trends.Values[row[monthOf(tx.CreatedAt)]][col[tx.Category]] += amountOf(tx)
	}
	return trends
}

// DailySpending is the dense daily expense series.
func DailySpending(txs []models.Transaction) []DayAmount {
	keys, values := dailyExpenses(txs)
	out := make([]DayAmount, len(keys))
	for i, k := range keys {
		out[i] = DayAmount{Date: k.Format(dayLayout), Amount: values[i]}
	}
	return out
}

// TopCategories returns the n largest expense categories by total. Equal
// totals are ordered by the larger single transaction, then by the order in
// which the categories first appear in txs.
func TopCategories(txs []models.Transaction, n int) []CategoryAmount {
	if n <= 0 {
		n = DefaultTopN
	}

	type agg struct {
		total     float64
		largest   float64
		firstSeen int
	}
	byCat := make(map[string]*agg)
	var order []string
	for i := range txs {
		tx := &txs[i]
		if !isExpense(tx) {
			continue
		}
		a, ok := byCat[tx.Category]
		if !ok {
			a = &agg{firstSeen: len(order)}
			byCat[tx.Category] = a
			order = append(order, tx.Category)
		}
		amt := amountOf(tx)
		a.total += amt
		if amt > a.largest {
			a.largest = amt
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := byCat[order[i]], byCat[order[j]]
		if a.total != b.total {
			return a.total > b.total
		}
		if a.largest != b.largest {
			return a.largest > b.largest
		}
		return a.firstSeen < b.firstSeen
	})

	if len(order) > n {
		order = order[:n]
	}
	out := make([]CategoryAmount, len(order))
	for i, c := range order {
		out[i] = CategoryAmount{Category: c, Amount: byCat[c].total}
	}
	return out
}

// MonthOverMonthChange computes (curr-prev)/prev over monthly expense
// totals, starting from the second month. A month following a zero month
// has a change of 0.
func MonthOverMonthChange(txs []models.Transaction) []MonthChange {
	keys, values := monthlyExpenses(txs)
	return monthChanges(keys, values)
}

func monthChanges(keys []time.Time, values []float64) []MonthChange {
	out := []MonthChange{}
	for i := 1; i < len(values); i++ {
		var change float64
		if prev := values[i-1]; prev != 0 {
			change = (values[i] - prev) / prev
		}
		out = append(out, MonthChange{Month: keys[i].Format(monthLayout), Change: change})
	}
	return out
}
