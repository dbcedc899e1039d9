package analytics

import (
	"sort"
	"time"

	"pennywise/internal/models"
)

const (
	seasonalMinMonths  = 12
	seasonalTopMonths  = 3
	predictionLookback = 3
)

// Averages are mean expense totals per day, week and month. Each mean runs
// over a dense series, so periods without spending count as 0.
type Averages struct {
	Daily   float64 `json:"daily_avg"`
	Weekly  float64 `json:"weekly_avg"`
	Monthly float64 `json:"monthly_avg"`
}

// MonthAverage is the mean expense total of one calendar month across years.
type MonthAverage struct {
	Month   int     `json:"month"`
	Name    string  `json:"name"`
	Average float64 `json:"average"`
}

// Seasonality lists the calendar months with the highest and lowest average
// spending.
type Seasonality struct {
	HighMonths []MonthAverage `json:"high_months"`
	LowMonths  []MonthAverage `json:"low_months"`
}

// AverageSpending needs at least one expense.
func AverageSpending(txs []models.Transaction) (Averages, error) {
	if countExpenses(txs) == 0 {
		return Averages{}, insufficient(1, 0, "expense transactions")
	}
	_, daily := dailyExpenses(txs)
	_, weekly := bucketSeries(txs, isExpense, weekOf, nextWeek)
	_, monthly := monthlyExpenses(txs)
	return Averages{
		Daily:   mean(daily),
		Weekly:  mean(weekly),
		Monthly: mean(monthly),
	}, nil
}

// WeeklyPattern averages the dense daily expense series by weekday, with
// Monday as 0 and Sunday as 6. Weekdays the series never reaches are absent.
func WeeklyPattern(txs []models.Transaction) map[int]float64 {
	keys, values := dailyExpenses(txs)
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i, k := range keys {
		d := weekdayIndex(k)
		sums[d] += values[i]
		counts[d]++
	}
	out := make(map[int]float64, len(sums))
	for d, s := range sums {
		out[d] = s / float64(counts[d])
	}
	return out
}

// SeasonalPattern needs at least twelve months between the first and last
// expense. With less it returns an empty pattern and the error.
func SeasonalPattern(txs []models.Transaction) (Seasonality, error) {
	empty := Seasonality{HighMonths: []MonthAverage{}, LowMonths: []MonthAverage{}}
	keys, values := monthlyExpenses(txs)
	if len(keys) < seasonalMinMonths {
		return empty, insufficient(seasonalMinMonths, len(keys), "months")
	}

	sums := make(map[time.Month]float64)
	counts := make(map[time.Month]int)
	for i, k := range keys {
		sums[k.Month()] += values[i]
		counts[k.Month()]++
	}
	avgs := make([]MonthAverage, 0, len(sums))
	for m, s := range sums {
		avgs = append(avgs, MonthAverage{Month: int(m), Name: m.String(), Average: s / float64(counts[m])})
	}

	high := append([]MonthAverage(nil), avgs...)
	sort.Slice(high, func(i, j int) bool {
		if high[i].Average != high[j].Average {
			return high[i].Average > high[j].Average
		}
		return high[i].Month < high[j].Month
	})
	low := append([]MonthAverage(nil), avgs...)
	sort.Slice(low, func(i, j int) bool {
		if low[i].Average != low[j].Average {
			return low[i].Average < low[j].Average
		}
		return low[i].Month < low[j].Month
	})

	return Seasonality{
		HighMonths: high[:seasonalTopMonths],
		LowMonths:  low[:seasonalTopMonths],
	}, nil
}

// NextMonthPrediction is the mean of the last three monthly expense totals,
// or of all months when there are fewer. It needs at least one expense.
func NextMonthPrediction(txs []models.Transaction) (float64, error) {
	_, values := monthlyExpenses(txs)
	if len(values) == 0 {
		return 0, insufficient(1, 0, "expense transactions")
	}
	if len(values) > predictionLookback {
		values = values[len(values)-predictionLookback:]
	}
	return mean(values), nil
}
