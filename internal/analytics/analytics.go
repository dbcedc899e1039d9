// Package analytics derives reporting series from a materialized set of
// transactions. Every function is pure: it reads the slice it is given and
// never touches storage, so callers may run several of them concurrently
// over the same input.
//
// Functions that can always produce an answer return it directly and degrade
// to empty or zero results. Functions that need a minimum amount of history
// return an *InsufficientDataError, which matches ErrInsufficientData.
package analytics

import (
	"errors"
	"fmt"
	"time"

	"pennywise/internal/models"
)

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

// ErrInsufficientData is matched by every *InsufficientDataError.
var ErrInsufficientData = errors.New("insufficient data")

// InsufficientDataError reports how much history a computation needed.
type InsufficientDataError struct {
	Need int    `json:"need"`
	Have int    `json:"have"`
	Unit string `json:"unit"`
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough data: need at least %d %s, have %d", e.Need, e.Unit, e.Have)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

func insufficient(need, have int, unit string) error {
	return &InsufficientDataError{Need: need, Have: have, Unit: unit}
}

// MonthAmount is one point of a monthly series.
type MonthAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// DayAmount is one point of a daily series.
type DayAmount struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// CategoryAmount pairs a category with a total.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

func isExpense(tx *models.Transaction) bool { return tx.Type == models.TransactionTypeExpense }

func amountOf(tx *models.Transaction) float64 { return tx.Amount.InexactFloat64() }

func monthOf(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// weekOf returns the Monday starting t's week.
func weekOf(t time.Time) time.Time {
	d := dayOf(t)
	return d.AddDate(0, 0, -weekdayIndex(d))
}

// weekdayIndex maps Monday to 0 and Sunday to 6.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// bucketSeries sums amounts of the kept transactions into buckets produced
// by key and returns a dense series stepping from the first to the last
// bucket. Buckets with no transactions are 0.
func bucketSeries(txs []models.Transaction, keep func(*models.Transaction) bool, key func(time.Time) time.Time, step func(time.Time) time.Time) ([]time.Time, []float64) {
	sums := make(map[time.Time]float64)
	var first, last time.Time
	for i := range txs {
		tx := &txs[i]
		if keep != nil && !keep(tx) {
			continue
		}
		k := key(tx.CreatedAt)
		sums[k] += amountOf(tx)
		if first.IsZero() || k.Before(first) {
			first = k
		}
		if last.IsZero() || k.After(last) {
			last = k
		}
	}
	if len(sums) == 0 {
		return nil, nil
	}

	var keys []time.Time
	var values []float64
	for k := first; !k.After(last); k = step(k) {
		keys = append(keys, k)
		values = append(values, sums[k])
	}
	return keys, values
}

func nextMonth(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
func nextDay(t time.Time) time.Time   { return t.AddDate(0, 0, 1) }
func nextWeek(t time.Time) time.Time  { return t.AddDate(0, 0, 7) }

func monthlyExpenses(txs []models.Transaction) ([]time.Time, []float64) {
	return bucketSeries(txs, isExpense, monthOf, nextMonth)
}

func dailyExpenses(txs []models.Transaction) ([]time.Time, []float64) {
	return bucketSeries(txs, isExpense, dayOf, nextDay)
}

func toMonthAmounts(keys []time.Time, values []float64) []MonthAmount {
	out := make([]MonthAmount, len(keys))
	for i, k := range keys {
		out[i] = MonthAmount{Month: k.Format(monthLayout), Amount: values[i]}
	}
	return out
}

func countExpenses(txs []models.Transaction) int {
	n := 0
	for i := range txs {
		if isExpense(&txs[i]) {
			n++
		}
	}
	return n
}
