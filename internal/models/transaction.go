package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a cash flow
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Cycle is the recurrence class of a transaction.
type Cycle string

const (
	CycleNone    Cycle = "none"
	CycleDaily   Cycle = "daily"
	CycleWeekly  Cycle = "weekly"
	CycleMonthly Cycle = "monthly"
	CycleYearly  Cycle = "yearly"
)

// Valid reports whether c is a known cycle.
func (c Cycle) Valid() bool {
	switch c {
	case CycleNone, CycleDaily, CycleWeekly, CycleMonthly, CycleYearly:
		return true
	}
	return false
}

// Recurring reports whether c repeats.
func (c Cycle) Recurring() bool {
	return c != CycleNone && c != ""
}

// DefaultRecurrenceYears is how long a recurring transaction runs when no
// end date is given.
const DefaultRecurrenceYears = 5

// Transaction represents a possibly recurring cash-flow event.
//
// For one-off transactions (CycleNone) the economic date is CreatedAt and the
// date fields are nil. Recurring transactions always carry StartDate, EndDate
// and DueDate.
type Transaction struct {
	Base
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Type        TransactionType `gorm:"type:varchar(16);not null;index" json:"type"`
	Category    string          `gorm:"not null;index" json:"category"`
	Cycle       Cycle           `gorm:"type:varchar(16);not null" json:"cycle"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Metadata    Metadata        `gorm:"type:text" json:"metadata,omitempty"`
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}
