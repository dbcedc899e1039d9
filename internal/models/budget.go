package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is a known budget period.
func (p BudgetPeriod) Valid() bool {
	return p == BudgetPeriodMonthly || p == BudgetPeriodYearly
}

// BudgetStatus is the outcome of comparing spend against a budget.
type BudgetStatus string

const (
	BudgetStatusOK         BudgetStatus = "ok"
	BudgetStatusWarning    BudgetStatus = "warning"
	BudgetStatusOverBudget BudgetStatus = "over_budget"
)

// DefaultNotificationThreshold is the spend fraction at which a budget warns.
const DefaultNotificationThreshold = 0.8

// Budget is a spending ceiling for one category. Categories are matched by
// value against transactions.
type Budget struct {
	Base
	Category              string          `gorm:"not null;index" json:"category"`
	Amount                decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Period                BudgetPeriod    `gorm:"type:varchar(16);not null" json:"period"`
	StartDate             time.Time       `gorm:"not null" json:"start_date"`
	EndDate               *time.Time      `json:"end_date,omitempty"`
	NotificationThreshold float64         `gorm:"not null" json:"notification_threshold"`
	Metadata              Metadata        `gorm:"type:text" json:"metadata,omitempty"`
}

// ActiveOn reports whether the budget's date range contains asOf. Dates are
// compared by calendar day.
func (b *Budget) ActiveOn(asOf time.Time) bool {
	day := dateOf(asOf)
	if dateOf(b.StartDate).After(day) {
		return false
	}
	return b.EndDate == nil || !dateOf(*b.EndDate).Before(day)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
