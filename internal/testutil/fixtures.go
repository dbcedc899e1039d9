package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pennywise/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestTransaction creates a one-off transaction dated at createdAt.
// amount is a decimal string such as "12.50".
func CreateTestTransaction(t *testing.T, db *gorm.DB, category string, txType models.TransactionType, amount string, createdAt time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Base:        models.Base{CreatedAt: createdAt},
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:      decimal.RequireFromString(amount),
		Type:        txType,
		Category:    category,
		Cycle:       models.CycleNone,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestRecurringTransaction creates a recurring expense running from
// start to end, due on start.
func CreateTestRecurringTransaction(t *testing.T, db *gorm.DB, category string, cycle models.Cycle, amount string, start, end time.Time) *models.Transaction {
	t.Helper()

	due := start
	tx := &models.Transaction{
		Base:        models.Base{CreatedAt: start},
		Description: fmt.Sprintf("Test Recurring %d", nextID()),
		Amount:      decimal.RequireFromString(amount),
		Type:        models.TransactionTypeExpense,
		Category:    category,
		Cycle:       cycle,
		StartDate:   &start,
		EndDate:     &end,
		DueDate:     &due,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an open-ended monthly budget for the category.
func CreateTestBudget(t *testing.T, db *gorm.DB, category, amount string, start time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Category:              category,
		Amount:                decimal.RequireFromString(amount),
		Period:                models.BudgetPeriodMonthly,
		StartDate:             start,
		NotificationThreshold: models.DefaultNotificationThreshold,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
