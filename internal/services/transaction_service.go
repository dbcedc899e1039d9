package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pennywise/internal/clock"
	apperrors "pennywise/internal/errors"
	"pennywise/internal/events"
	"pennywise/internal/logger"
	"pennywise/internal/models"
	"pennywise/internal/pagination"
	"pennywise/internal/recurrence"
	"pennywise/internal/uuid"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db        *gorm.DB
	clock     clock.Clock
	publisher events.Publisher
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, clk clock.Clock, publisher events.Publisher) TransactionServicer {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &transactionService{
		db:        db,
		clock:     clk,
		publisher: publisher,
	}
}

// CreateTransaction validates and records a transaction. Recurring
// transactions get their end date and due date defaulted from the start date.
func (s *transactionService) CreateTransaction(input CreateTransactionInput) (*models.Transaction, error) {
	createdAt := s.clock.Now()
	if input.CreatedAt != nil {
		createdAt = *input.CreatedAt
	}

	transaction := &models.Transaction{
		Base:        models.Base{CreatedAt: createdAt.UTC()},
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Type:        input.Type,
		Category:    strings.TrimSpace(input.Category),
		Cycle:       input.Cycle,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		DueDate:     input.DueDate,
		Metadata:    input.Metadata,
	}
	if transaction.Cycle == "" {
		transaction.Cycle = models.CycleNone
	}

	if err := normalizeTransaction(transaction); err != nil {
		return nil, err
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, storageError("create transaction", err)
	}

	s.publish(events.TransactionCreated, transaction.ID, map[string]any{
		"category": transaction.Category,
		"type":     transaction.Type,
	})
	return transaction, nil
}

// normalizeTransaction applies date defaults for the transaction's cycle and
// rejects records that break the ledger invariants.
func normalizeTransaction(t *models.Transaction) error {
	if t.Category == "" {
		return invalid("category is required")
	}
	if !t.Amount.IsPositive() {
		return invalid("amount must be greater than zero")
	}
	if !t.Type.Valid() {
		return invalid("type must be income or expense")
	}
	if !t.Cycle.Valid() {
		return invalid("cycle must be one of none, daily, weekly, monthly, yearly")
	}

	if !t.Cycle.Recurring() {
		t.StartDate, t.EndDate, t.DueDate = nil, nil, nil
		return nil
	}

	if t.StartDate == nil {
		return invalid("start_date is required for recurring transactions")
	}
	start := recurrence.DayStart(*t.StartDate)
	t.StartDate = &start

	if t.EndDate == nil {
		end := start.AddDate(models.DefaultRecurrenceYears, 0, 0)
		t.EndDate = &end
	} else {
		end := recurrence.DayStart(*t.EndDate)
		t.EndDate = &end
	}
	if t.EndDate.Before(start) {
		return invalid("end_date must not be before start_date")
	}

	if t.DueDate == nil {
		due := start
		t.DueDate = &due
	} else {
		due := recurrence.DayStart(*t.DueDate)
		t.DueDate = &due
	}
	return nil
}

// GetAllTransactions returns every transaction, newest first.
func (s *transactionService) GetAllTransactions() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Order("created_at DESC, id DESC").Find(&transactions).Error; err != nil {
		return nil, storageError("list transactions", err)
	}
	return transactions, nil
}

// GetTransactions retrieves a paginated, filtered list of transactions.
func (s *transactionService) GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := applyTransactionFilters(s.db.Model(&models.Transaction{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, storageError("count transactions", err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, storageError("list transactions", err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("created_at >= ?", recurrence.DayStart(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("created_at <= ?", recurrence.DayEnd(*f.ToDate))
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Cycle != nil {
		q = q.Where("cycle = ?", *f.Cycle)
	}
	return q
}

// GetTransactionByID returns a single transaction.
func (s *transactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	if !uuid.IsValid(id) {
		return nil, apperrors.ErrTransactionNotFound
	}
	var transaction models.Transaction
	if err := s.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, storageError("get transaction", err)
	}
	return &transaction, nil
}

// GetTransactionsForPeriod returns the transactions that fall in the window
// from windowStart through the end of windowEnd's day, each with the amount
// it contributes to that window.
func (s *transactionService) GetTransactionsForPeriod(windowStart, windowEnd time.Time) ([]PeriodTransaction, error) {
	w := recurrence.NewWindow(windowStart, windowEnd)
	if w.End.Before(w.Start) {
		return nil, invalid("window end must not be before window start")
	}

	all, err := s.GetAllTransactions()
	if err != nil {
		return nil, err
	}

	result := make([]PeriodTransaction, 0, len(all))
	for i := range all {
		amount, ok := recurrence.Contribution(&all[i], w)
		if !ok {
			continue
		}
		result = append(result, PeriodTransaction{Transaction: all[i], CalculatedAmount: amount})
	}
	return result, nil
}

// UpdateTransaction applies fields to a copy of the stored transaction,
// re-validates the merged record and only then writes it.
func (s *transactionService) UpdateTransaction(id string, fields TransactionUpdateFields) (*models.Transaction, error) {
	existing, err := s.GetTransactionByID(id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if fields.Description != nil {
		merged.Description = strings.TrimSpace(*fields.Description)
	}
	if fields.Amount != nil {
		merged.Amount = *fields.Amount
	}
	if fields.Type != nil {
		merged.Type = *fields.Type
	}
	if fields.Category != nil {
		merged.Category = strings.TrimSpace(*fields.Category)
	}
	if fields.Cycle != nil {
		merged.Cycle = *fields.Cycle
	}
	if fields.StartDate != nil {
		merged.StartDate = fields.StartDate
	}
	if fields.EndDate != nil {
		merged.EndDate = fields.EndDate
	}
	if fields.DueDate != nil {
		merged.DueDate = fields.DueDate
	}
	if fields.Metadata != nil {
		merged.Metadata = *fields.Metadata
	}

	if err := normalizeTransaction(&merged); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"description": merged.Description,
		"amount":      merged.Amount,
		"type":        merged.Type,
		"category":    merged.Category,
		"cycle":       merged.Cycle,
		"start_date":  merged.StartDate,
		"end_date":    merged.EndDate,
		"due_date":    merged.DueDate,
		"metadata":    merged.Metadata,
	}
	if err := s.db.Model(existing).Updates(updates).Error; err != nil {
		return nil, storageError("update transaction", err)
	}

	updated, err := s.GetTransactionByID(id)
	if err != nil {
		return nil, err
	}

	s.publish(events.TransactionUpdated, updated.ID, map[string]any{
		"category": updated.Category,
		"type":     updated.Type,
	})
	return updated, nil
}

// DeleteTransaction soft-deletes a transaction. Budgets are not affected.
func (s *transactionService) DeleteTransaction(id string) error {
	transaction, err := s.GetTransactionByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return storageError("delete transaction", err)
	}

	s.publish(events.TransactionDeleted, transaction.ID, nil)
	return nil
}

// SummaryByCategory totals transactions per category.
func (s *transactionService) SummaryByCategory(filter SummaryFilter) (map[string]decimal.Decimal, error) {
	if (filter.From == nil) != (filter.To == nil) {
		return nil, invalid("from and to must be given together")
	}

	type entry struct {
		tx     *models.Transaction
		amount decimal.Decimal
	}
	var entries []entry

	if filter.From != nil {
		period, err := s.GetTransactionsForPeriod(*filter.From, *filter.To)
		if err != nil {
			return nil, err
		}
		for i := range period {
			entries = append(entries, entry{tx: &period[i].Transaction, amount: period[i].CalculatedAmount})
		}
	} else {
		all, err := s.GetAllTransactions()
		if err != nil {
			return nil, err
		}
		for i := range all {
			entries = append(entries, entry{tx: &all[i], amount: all[i].Amount})
		}
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if filter.Type != nil && e.tx.Type != *filter.Type {
			continue
		}
		if filter.Category != "" && e.tx.Category != filter.Category {
			continue
		}
		totals[e.tx.Category] = totals[e.tx.Category].Add(e.amount)
	}
	return totals, nil
}

// GetUpcomingPayments lists recurring transactions whose next due date falls
// within days of asOf, soonest first. A zero asOf means today.
func (s *transactionService) GetUpcomingPayments(asOf time.Time, days int) ([]UpcomingPayment, error) {
	if days < 0 {
		return nil, invalid("days must not be negative")
	}
	if asOf.IsZero() {
		asOf = s.clock.Now()
	}

	all, err := s.GetAllTransactions()
	if err != nil {
		return nil, err
	}

	horizon := recurrence.DayStart(asOf).AddDate(0, 0, days)
	payments := []UpcomingPayment{}
	for _, t := range all {
		if !t.Cycle.Recurring() || t.StartDate == nil {
			continue
		}
		anchor := *t.StartDate
		if t.DueDate != nil {
			anchor = *t.DueDate
		}
		next, ok := recurrence.NextOccurrence(t.Cycle, anchor, t.EndDate, asOf)
		if !ok || next.After(horizon) {
			continue
		}
		payments = append(payments, UpcomingPayment{Transaction: t, NextDate: next})
	}

	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].NextDate.Before(payments[j].NextDate)
	})
	return payments, nil
}

// publish sends a ledger event. Delivery failures are logged and never fail
// the operation that caused them.
func (s *transactionService) publish(eventType, resourceID string, data map[string]any) {
	publishEvent(s.publisher, events.New(eventType, resourceID, data))
}

func publishEvent(publisher events.Publisher, e events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := publisher.Publish(ctx, e); err != nil {
		logger.Get().Warnw("failed to publish event",
			"error", err,
			"type", e.Type,
			"resource_id", e.ResourceID,
		)
	}
}
