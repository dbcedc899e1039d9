package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pennywise/internal/clock"
	"pennywise/internal/events"
	"pennywise/internal/models"
	"pennywise/internal/pagination"
	"pennywise/internal/testutil"
)

var testNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func newLedger(t *testing.T) (TransactionServicer, *gorm.DB, *events.Recorder) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	rec := &events.Recorder{}
	return NewTransactionService(db, &clock.FixedClock{FixedNow: testNow}, rec), db, rec
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := testutil.Date(y, m, d)
	return &t
}

func expenseInput(category, amount string) CreateTransactionInput {
	return CreateTransactionInput{
		Description: "test",
		Amount:      dec(amount),
		Type:        models.TransactionTypeExpense,
		Category:    category,
		Cycle:       models.CycleNone,
	}
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Transaction{}).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func TestCreateTransaction(t *testing.T) {
	t.Run("one_off_uses_clock_and_drops_dates", func(t *testing.T) {
		svc, _, rec := newLedger(t)

		input := expenseInput("  groceries ", "42.50")
		input.StartDate = datePtr(2024, 1, 1)
		input.DueDate = datePtr(2024, 1, 2)

		tx, err := svc.CreateTransaction(input)
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected an ID")
		}
		if tx.Category != "groceries" {
			t.Errorf("expected trimmed category, got %q", tx.Category)
		}
		if !tx.CreatedAt.Equal(testNow) {
			t.Errorf("expected created_at %v, got %v", testNow, tx.CreatedAt)
		}
		if tx.StartDate != nil || tx.EndDate != nil || tx.DueDate != nil {
			t.Error("expected dates to be dropped for a one-off transaction")
		}
		if got := rec.Types(); len(got) != 1 || got[0] != events.TransactionCreated {
			t.Errorf("expected one created event, got %v", got)
		}
	})

	t.Run("recurring_defaults", func(t *testing.T) {
		svc, _, _ := newLedger(t)

		input := expenseInput("rent", "1500")
		input.Cycle = models.CycleMonthly
		start := time.Date(2024, 2, 1, 17, 45, 0, 0, time.UTC)
		input.StartDate = &start

		tx, err := svc.CreateTransaction(input)
		testutil.AssertNoError(t, err)

		if !tx.StartDate.Equal(testutil.Date(2024, 2, 1)) {
			t.Errorf("expected start truncated to the day, got %v", tx.StartDate)
		}
		if !tx.EndDate.Equal(testutil.Date(2029, 2, 1)) {
			t.Errorf("expected end five years after start, got %v", tx.EndDate)
		}
		if !tx.DueDate.Equal(testutil.Date(2024, 2, 1)) {
			t.Errorf("expected due date to default to start, got %v", tx.DueDate)
		}
	})

	t.Run("backdated", func(t *testing.T) {
		svc, _, _ := newLedger(t)

		input := expenseInput("food", "10")
		input.CreatedAt = datePtr(2023, 12, 24)

		tx, err := svc.CreateTransaction(input)
		testutil.AssertNoError(t, err)
		if !tx.CreatedAt.Equal(testutil.Date(2023, 12, 24)) {
			t.Errorf("expected backdated created_at, got %v", tx.CreatedAt)
		}
	})

	t.Run("publish_failure_is_ignored", func(t *testing.T) {
		svc, db, rec := newLedger(t)
		rec.Err = errors.New("broker down")

		_, err := svc.CreateTransaction(expenseInput("food", "10"))
		testutil.AssertNoError(t, err)
		if n := countTransactions(t, db); n != 1 {
			t.Errorf("expected 1 stored transaction, got %d", n)
		}
	})

	invalid := []struct {
		name   string
		mutate func(*CreateTransactionInput)
	}{
		{"zero_amount", func(in *CreateTransactionInput) { in.Amount = decimal.Zero }},
		{"negative_amount", func(in *CreateTransactionInput) { in.Amount = dec("-5") }},
		{"blank_category", func(in *CreateTransactionInput) { in.Category = "   " }},
		{"bad_type", func(in *CreateTransactionInput) { in.Type = "transfer" }},
		{"bad_cycle", func(in *CreateTransactionInput) { in.Cycle = "hourly" }},
		{"recurring_without_start", func(in *CreateTransactionInput) { in.Cycle = models.CycleWeekly }},
		{"monthly_end_before_start", func(in *CreateTransactionInput) {
			in.Cycle = models.CycleMonthly
			in.StartDate = datePtr(2024, 5, 1)
			in.EndDate = datePtr(2024, 4, 1)
		}},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			svc, db, rec := newLedger(t)
			input := expenseInput("food", "10")
			tc.mutate(&input)

			_, err := svc.CreateTransaction(input)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
			if n := countTransactions(t, db); n != 0 {
				t.Errorf("expected nothing stored, got %d rows", n)
			}
			if len(rec.Events()) != 0 {
				t.Error("expected no event for a rejected transaction")
			}
		})
	}
}

func TestGetAllTransactions(t *testing.T) {
	svc, db, _ := newLedger(t)
	older := testutil.CreateTestTransaction(t, db, "food", models.TransactionTypeExpense, "1", testutil.Date(2024, 1, 1))
	newer := testutil.CreateTestTransaction(t, db, "food", models.TransactionTypeExpense, "2", testutil.Date(2024, 2, 1))

	all, err := svc.GetAllTransactions()
	testutil.AssertNoError(t, err)
	if len(all) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(all))
	}
	if all[0].ID != newer.ID || all[1].ID != older.ID {
		t.Error("expected newest first")
	}
}

func TestGetTransactions(t *testing.T) {
	svc, db, _ := newLedger(t)
	for i := 1; i <= 5; i++ {
		testutil.CreateTestTransaction(t, db, "food", models.TransactionTypeExpense, "10", testutil.Date(2024, 3, i))
	}
	testutil.CreateTestTransaction(t, db, "salary", models.TransactionTypeIncome, "1000", testutil.Date(2024, 3, 2))

	t.Run("paged", func(t *testing.T) {
		result, err := svc.GetTransactions(pagination.PageRequest{Page: 1, PageSize: 4}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 6 || len(result.Data) != 4 || !result.HasNext {
			t.Errorf("unexpected page: total=%d len=%d has_next=%v", result.TotalItems, len(result.Data), result.HasNext)
		}
	})

	t.Run("filter_by_type", func(t *testing.T) {
		income := models.TransactionTypeIncome
		result, err := svc.GetTransactions(pagination.PageRequest{}, TransactionFilter{Type: &income})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 income transaction, got %d", result.TotalItems)
		}
	})

	t.Run("filter_by_date_range", func(t *testing.T) {
		cat := "food"
		result, err := svc.GetTransactions(pagination.PageRequest{}, TransactionFilter{
			FromDate: datePtr(2024, 3, 2),
			ToDate:   datePtr(2024, 3, 3),
			Category: &cat,
		})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 transactions in range, got %d", result.TotalItems)
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	svc, db, _ := newLedger(t)
	created := testutil.CreateTestTransaction(t, db, "food", models.TransactionTypeExpense, "3", testutil.Date(2024, 1, 1))

	t.Run("found", func(t *testing.T) {
		tx, err := svc.GetTransactionByID(created.ID)
		testutil.AssertNoError(t, err)
		if tx.Category != "food" {
			t.Errorf("expected food, got %s", tx.Category)
		}
	})

	t.Run("malformed_id", func(t *testing.T) {
		_, err := svc.GetTransactionByID("not-a-uuid")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("unknown_id", func(t *testing.T) {
		_, err := svc.GetTransactionByID("0190d3b4-7c4e-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func findPeriod(items []PeriodTransaction, id string) (PeriodTransaction, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return PeriodTransaction{}, false
}

func TestGetTransactionsForPeriod(t *testing.T) {
	svc, db, _ := newLedger(t)

	monthly := testutil.CreateTestRecurringTransaction(t, db, "rent", models.CycleMonthly, "100", testutil.Date(2024, 1, 15), testutil.Date(2024, 12, 31))
	weekly := testutil.CreateTestRecurringTransaction(t, db, "gym", models.CycleWeekly, "10", testutil.Date(2024, 1, 1), testutil.Date(2025, 1, 1))
	daily := testutil.CreateTestRecurringTransaction(t, db, "coffee", models.CycleDaily, "5", testutil.Date(2024, 3, 1), testutil.Date(2024, 3, 10))
	yearly := testutil.CreateTestRecurringTransaction(t, db, "insurance", models.CycleYearly, "900", testutil.Date(2020, 6, 1), testutil.Date(2030, 6, 1))
	future := testutil.CreateTestRecurringTransaction(t, db, "rent", models.CycleMonthly, "100", testutil.Date(2025, 1, 1), testutil.Date(2025, 12, 1))
	inside := testutil.CreateTestTransaction(t, db, "food", models.TransactionTypeExpense, "12.50", time.Date(2024, 5, 31, 18, 0, 0, 0, time.UTC))
	outside := testutil.CreateTestTransaction(t, db, "food", models.TransactionTypeExpense, "99", testutil.Date(2024, 6, 1))

	items, err := svc.GetTransactionsForPeriod(testutil.Date(2024, 3, 1), testutil.Date(2024, 5, 31))
	testutil.AssertNoError(t, err)

	expect := map[string]string{
		monthly.ID: "200",
		weekly.ID:  "130",
		daily.ID:   "45",
		yearly.ID:  "0",
		inside.ID:  "12.5",
	}
	for id, want := range expect {
		got, ok := findPeriod(items, id)
		if !ok {
			t.Errorf("expected %s in window", id)
			continue
		}
		if !got.CalculatedAmount.Equal(dec(want)) {
			t.Errorf("%s: expected calculated amount %s, got %s", got.Category, want, got.CalculatedAmount)
		}
	}
	for _, id := range []string{future.ID, outside.ID} {
		if _, ok := findPeriod(items, id); ok {
			t.Errorf("did not expect %s in window", id)
		}
	}

	t.Run("inverted_window", func(t *testing.T) {
		_, err := svc.GetTransactionsForPeriod(testutil.Date(2024, 5, 1), testutil.Date(2024, 4, 1))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("amount_round_trip", func(t *testing.T) {
		svc, _, rec := newLedger(t)
		created, err := svc.CreateTransaction(expenseInput("food", "10"))
		testutil.AssertNoError(t, err)

		amount := dec("75.25")
		updated, err := svc.UpdateTransaction(created.ID, TransactionUpdateFields{Amount: &amount})
		testutil.AssertNoError(t, err)
		if !updated.Amount.Equal(amount) {
			t.Errorf("expected amount 75.25, got %s", updated.Amount)
		}

		fetched, err := svc.GetTransactionByID(created.ID)
		testutil.AssertNoError(t, err)
		if !fetched.Amount.Equal(amount) {
			t.Errorf("expected stored amount 75.25, got %s", fetched.Amount)
		}
		if got := rec.Types(); len(got) != 2 || got[1] != events.TransactionUpdated {
			t.Errorf("expected created then updated events, got %v", got)
		}
	})

	t.Run("invalid_update_leaves_record", func(t *testing.T) {
		svc, _, _ := newLedger(t)
		created, err := svc.CreateTransaction(expenseInput("food", "10"))
		testutil.AssertNoError(t, err)

		zero := decimal.Zero
		desc := "changed"
		_, err = svc.UpdateTransaction(created.ID, TransactionUpdateFields{Amount: &zero, Description: &desc})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		fetched, err := svc.GetTransactionByID(created.ID)
		testutil.AssertNoError(t, err)
		if !fetched.Amount.Equal(dec("10")) || fetched.Description != "test" {
			t.Errorf("expected record untouched, got amount=%s description=%q", fetched.Amount, fetched.Description)
		}
	})

	t.Run("to_none_clears_dates", func(t *testing.T) {
		svc, db, _ := newLedger(t)
		created := testutil.CreateTestRecurringTransaction(t, db, "rent", models.CycleMonthly, "100", testutil.Date(2024, 1, 1), testutil.Date(2024, 12, 1))

		none := models.CycleNone
		updated, err := svc.UpdateTransaction(created.ID, TransactionUpdateFields{Cycle: &none})
		testutil.AssertNoError(t, err)
		if updated.StartDate != nil || updated.EndDate != nil || updated.DueDate != nil {
			t.Error("expected dates cleared")
		}
	})

	t.Run("to_recurring_requires_start", func(t *testing.T) {
		svc, _, _ := newLedger(t)
		created, err := svc.CreateTransaction(expenseInput("rent", "100"))
		testutil.AssertNoError(t, err)

		monthly := models.CycleMonthly
		_, err = svc.UpdateTransaction(created.ID, TransactionUpdateFields{Cycle: &monthly})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		updated, err := svc.UpdateTransaction(created.ID, TransactionUpdateFields{Cycle: &monthly, StartDate: datePtr(2024, 7, 1)})
		testutil.AssertNoError(t, err)
		if updated.EndDate == nil || !updated.EndDate.Equal(testutil.Date(2029, 7, 1)) {
			t.Errorf("expected default end date, got %v", updated.EndDate)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc, _, _ := newLedger(t)
		desc := "x"
		_, err := svc.UpdateTransaction("0190d3b4-7c4e-7000-8000-000000000000", TransactionUpdateFields{Description: &desc})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	svc, db, rec := newLedger(t)
	created := testutil.CreateTestTransaction(t, db, "food", models.TransactionTypeExpense, "3", testutil.Date(2024, 1, 1))
	budget := testutil.CreateTestBudget(t, db, "food", "100", testutil.Date(2024, 1, 1))

	testutil.AssertNoError(t, svc.DeleteTransaction(created.ID))

	_, err := svc.GetTransactionByID(created.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

	var count int64
	db.Model(&models.Budget{}).Where("id = ?", budget.ID).Count(&count)
	if count != 1 {
		t.Error("expected budget to survive transaction deletion")
	}
	if got := rec.Types(); len(got) != 1 || got[0] != events.TransactionDeleted {
		t.Errorf("expected a deleted event, got %v", got)
	}

	err = svc.DeleteTransaction(created.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestSummaryByCategory(t *testing.T) {
	svc, db, _ := newLedger(t)
	testutil.CreateTestTransaction(t, db, "food", models.TransactionTypeExpense, "30", testutil.Date(2024, 3, 5))
	testutil.CreateTestTransaction(t, db, "food", models.TransactionTypeExpense, "20", testutil.Date(2024, 4, 5))
	testutil.CreateTestTransaction(t, db, "salary", models.TransactionTypeIncome, "1000", testutil.Date(2024, 3, 1))
	testutil.CreateTestRecurringTransaction(t, db, "rent", models.CycleMonthly, "100", testutil.Date(2024, 1, 1), testutil.Date(2024, 12, 1))

	t.Run("raw_amounts_without_range", func(t *testing.T) {
		totals, err := svc.SummaryByCategory(SummaryFilter{})
		testutil.AssertNoError(t, err)
		if !totals["food"].Equal(dec("50")) || !totals["rent"].Equal(dec("100")) || !totals["salary"].Equal(dec("1000")) {
			t.Errorf("unexpected totals: %v", totals)
		}
	})

	t.Run("window_amounts_with_range", func(t *testing.T) {
		expense := models.TransactionTypeExpense
		totals, err := svc.SummaryByCategory(SummaryFilter{
			From: datePtr(2024, 3, 1),
			To:   datePtr(2024, 3, 31),
			Type: &expense,
		})
		testutil.AssertNoError(t, err)
		if !totals["food"].Equal(dec("30")) {
			t.Errorf("expected food 30, got %s", totals["food"])
		}
		if !totals["rent"].Equal(dec("0")) {
			t.Errorf("expected rent 0 within a single month, got %s", totals["rent"])
		}
		if _, ok := totals["salary"]; ok {
			t.Error("expected income to be filtered out")
		}
	})

	t.Run("category_filter", func(t *testing.T) {
		totals, err := svc.SummaryByCategory(SummaryFilter{Category: "food"})
		testutil.AssertNoError(t, err)
		if len(totals) != 1 {
			t.Errorf("expected only food, got %v", totals)
		}
	})

	t.Run("half_open_range", func(t *testing.T) {
		_, err := svc.SummaryByCategory(SummaryFilter{From: datePtr(2024, 3, 1)})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUpcomingPayments(t *testing.T) {
	svc, db, _ := newLedger(t)
	rent := testutil.CreateTestRecurringTransaction(t, db, "rent", models.CycleMonthly, "1500", testutil.Date(2024, 1, 15), testutil.Date(2024, 12, 15))
	gym := testutil.CreateTestRecurringTransaction(t, db, "gym", models.CycleWeekly, "20", testutil.Date(2024, 3, 4), testutil.Date(2024, 12, 30))
	testutil.CreateTestRecurringTransaction(t, db, "old", models.CycleMonthly, "10", testutil.Date(2023, 1, 15), testutil.Date(2023, 12, 15))
	testutil.CreateTestTransaction(t, db, "food", models.TransactionTypeExpense, "5", testutil.Date(2024, 3, 12))

	t.Run("within_horizon", func(t *testing.T) {
		payments, err := svc.GetUpcomingPayments(testutil.Date(2024, 3, 10), 10)
		testutil.AssertNoError(t, err)
		if len(payments) != 2 {
			t.Fatalf("expected 2 upcoming payments, got %d", len(payments))
		}
		if payments[0].Transaction.ID != gym.ID || !payments[0].NextDate.Equal(testutil.Date(2024, 3, 11)) {
			t.Errorf("expected gym on 2024-03-11 first, got %s on %v", payments[0].Transaction.Category, payments[0].NextDate)
		}
		if payments[1].Transaction.ID != rent.ID || !payments[1].NextDate.Equal(testutil.Date(2024, 3, 15)) {
			t.Errorf("expected rent on 2024-03-15 second, got %s on %v", payments[1].Transaction.Category, payments[1].NextDate)
		}
	})

	t.Run("short_horizon", func(t *testing.T) {
		payments, err := svc.GetUpcomingPayments(testutil.Date(2024, 3, 10), 3)
		testutil.AssertNoError(t, err)
		if len(payments) != 1 || payments[0].Transaction.ID != gym.ID {
			t.Errorf("expected only gym, got %d payments", len(payments))
		}
	})

	t.Run("negative_days", func(t *testing.T) {
		_, err := svc.GetUpcomingPayments(testNow, -1)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
