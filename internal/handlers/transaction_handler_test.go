package handlers

import (
	"context"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"pennywise/internal/classifier"
	apperrors "pennywise/internal/errors"
	"pennywise/internal/models"
	"pennywise/internal/pagination"
	"pennywise/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn        func(input services.CreateTransactionInput) (*models.Transaction, error)
	getAllTransactionsFn       func() ([]models.Transaction, error)
	getTransactionsFn          func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn       func(id string) (*models.Transaction, error)
	getTransactionsForPeriodFn func(start, end time.Time) ([]services.PeriodTransaction, error)
	updateTransactionFn        func(id string, fields services.TransactionUpdateFields) (*models.Transaction, error)
	deleteTransactionFn        func(id string) error
	summaryByCategoryFn        func(filter services.SummaryFilter) (map[string]decimal.Decimal, error)
	getUpcomingPaymentsFn      func(asOf time.Time, days int) ([]services.UpcomingPayment, error)
}

func (m *mockTransactionService) CreateTransaction(input services.CreateTransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(input)
	}
	return &models.Transaction{Base: models.Base{ID: testID}}, nil
}

func (m *mockTransactionService) GetAllTransactions() ([]models.Transaction, error) {
	if m.getAllTransactionsFn != nil {
		return m.getAllTransactionsFn()
	}
	return []models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactions(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getTransactionsFn != nil {
		return m.getTransactionsFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(id)
	}
	return &models.Transaction{Base: models.Base{ID: id}}, nil
}

func (m *mockTransactionService) GetTransactionsForPeriod(start, end time.Time) ([]services.PeriodTransaction, error) {
	if m.getTransactionsForPeriodFn != nil {
		return m.getTransactionsForPeriodFn(start, end)
	}
	return []services.PeriodTransaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(id string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(id, fields)
	}
	return &models.Transaction{Base: models.Base{ID: id}}, nil
}

func (m *mockTransactionService) DeleteTransaction(id string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(id)
	}
	return nil
}

func (m *mockTransactionService) SummaryByCategory(filter services.SummaryFilter) (map[string]decimal.Decimal, error) {
	if m.summaryByCategoryFn != nil {
		return m.summaryByCategoryFn(filter)
	}
	return map[string]decimal.Decimal{}, nil
}

func (m *mockTransactionService) GetUpcomingPayments(asOf time.Time, days int) ([]services.UpcomingPayment, error) {
	if m.getUpcomingPaymentsFn != nil {
		return m.getUpcomingPaymentsFn(asOf, days)
	}
	return []services.UpcomingPayment{}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

type mockClassifier struct {
	classifyFn func(ctx context.Context, description string) (*classifier.Classification, error)
}

func (m *mockClassifier) Classify(ctx context.Context, description string) (*classifier.Classification, error) {
	return m.classifyFn(ctx, description)
}

var _ classifier.Classifier = (*mockClassifier)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	r.POST("/transactions", handler.CreateTransaction)
	r.GET("/transactions", handler.GetTransactions)
	r.GET("/transactions/all", handler.GetAllTransactions)
	r.GET("/transactions/period", handler.GetTransactionsForPeriod)
	r.GET("/transactions/summary", handler.GetSummary)
	r.GET("/transactions/upcoming", handler.GetUpcomingPayments)
	r.GET("/transactions/export", handler.ExportTransactions)
	r.POST("/transactions/classify", handler.ClassifyTransaction)
	r.GET("/transactions/:id", handler.GetTransactionByID)
	r.PUT("/transactions/:id", handler.UpdateTransaction)
	r.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.CreateTransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(input services.CreateTransactionInput) (*models.Transaction, error) {
				got = input
				return &models.Transaction{
					Base:     models.Base{ID: testID},
					Amount:   input.Amount,
					Type:     input.Type,
					Category: input.Category,
					Cycle:    models.CycleMonthly,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, audit, nil))

		rec := doRequest(r, "POST", "/transactions",
			`{"description":"Rent","amount":"1200.50","type":"expense","category":"housing","cycle":"monthly","start_date":"2024-01-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Equal(decimal.RequireFromString("1200.50")) {
			t.Errorf("expected amount 1200.50, got %s", got.Amount)
		}
		if got.StartDate == nil || !got.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected start date 2024-01-01, got %v", got.StartDate)
		}
		if got.CreatedAt != nil {
			t.Errorf("expected created_at to default, got %v", got.CreatedAt)
		}
		entry := assertAudited(t, audit, "CREATE_TRANSACTION")
		if entry.resourceID != testID {
			t.Errorf("expected audit resource %s, got %s", testID, entry.resourceID)
		}
	})

	t.Run("accepts numeric amount and backdated created_at", func(t *testing.T) {
		var got services.CreateTransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(input services.CreateTransactionInput) (*models.Transaction, error) {
				got = input
				return &models.Transaction{Base: models.Base{ID: testID}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, nil))

		rec := doRequest(r, "POST", "/transactions",
			`{"description":"Coffee","amount":4.5,"type":"expense","category":"food","created_at":"2023-12-24T09:15:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Equal(decimal.RequireFromString("4.5")) {
			t.Errorf("expected amount 4.5, got %s", got.Amount)
		}
		if got.CreatedAt == nil || !got.CreatedAt.Equal(time.Date(2023, 12, 24, 9, 15, 0, 0, time.UTC)) {
			t.Errorf("expected backdated created_at, got %v", got.CreatedAt)
		}
	})

	t.Run("returns 400 on missing category", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "POST", "/transactions",
			`{"description":"Rent","amount":"100","type":"expense"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "POST", "/transactions",
			`{"description":"Rent","amount":"100","type":"transfer","category":"housing"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid cycle", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "POST", "/transactions",
			`{"description":"Rent","amount":"100","type":"expense","category":"housing","cycle":"hourly"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed start_date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "POST", "/transactions",
			`{"description":"Rent","amount":"100","type":"expense","category":"housing","cycle":"monthly","start_date":"01/02/2024"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("passes service validation errors through", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(services.CreateTransactionInput) (*models.Transaction, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, audit, nil))

		rec := doRequest(r, "POST", "/transactions",
			`{"description":"Rent","amount":"0","type":"expense","category":"housing"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if len(audit.entries) != 0 {
			t.Errorf("expected no audit entry on failure, got %v", audit.entries)
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("passes filter params to service", func(t *testing.T) {
		var gotPage pagination.PageRequest
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			getTransactionsFn: func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotPage = page
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions?page=2&page_size=10&type=expense&category=food&cycle=none&from_date=2024-01-01&to_date=2024-01-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 2 || gotPage.PageSize != 10 {
			t.Errorf("expected page 2 size 10, got %+v", gotPage)
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense filter, got %v", gotFilter.Type)
		}
		if gotFilter.Category == nil || *gotFilter.Category != "food" {
			t.Errorf("expected food filter, got %v", gotFilter.Category)
		}
		if gotFilter.Cycle == nil || *gotFilter.Cycle != models.CycleNone {
			t.Errorf("expected none cycle filter, got %v", gotFilter.Cycle)
		}
		if gotFilter.FromDate == nil || gotFilter.ToDate == nil {
			t.Error("expected both date filters")
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions?type=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactionsForPeriod(t *testing.T) {
	t.Run("returns calculated amounts", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		txSvc := &mockTransactionService{
			getTransactionsForPeriodFn: func(start, end time.Time) ([]services.PeriodTransaction, error) {
				gotStart, gotEnd = start, end
				return []services.PeriodTransaction{{
					Transaction:      models.Transaction{Base: models.Base{ID: testID}, Cycle: models.CycleWeekly},
					CalculatedAmount: decimal.NewFromInt(130),
				}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions/period?start=2024-01-01&end=2024-01-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotStart.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || !gotEnd.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected window %v - %v", gotStart, gotEnd)
		}
		result := parseJSON(t, rec)
		txs := result["transactions"].([]interface{})
		if len(txs) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(txs))
		}
		if txs[0].(map[string]interface{})["calculated_amount"] != "130" {
			t.Errorf("expected calculated_amount 130, got %v", txs[0].(map[string]interface{})["calculated_amount"])
		}
	})

	t.Run("returns 400 without end", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions/period?start=2024-01-01", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetSummary(t *testing.T) {
	t.Run("passes window and type", func(t *testing.T) {
		var got services.SummaryFilter
		txSvc := &mockTransactionService{
			summaryByCategoryFn: func(filter services.SummaryFilter) (map[string]decimal.Decimal, error) {
				got = filter
				return map[string]decimal.Decimal{"food": decimal.NewFromInt(45)}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions/summary?start=2024-01-01&end=2024-01-31&type=expense", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.From == nil || got.To == nil || got.Type == nil || *got.Type != models.TransactionTypeExpense {
			t.Errorf("unexpected filter %+v", got)
		}
		summary := parseJSON(t, rec)["summary"].(map[string]interface{})
		if summary["food"] != "45" {
			t.Errorf("expected food 45, got %v", summary["food"])
		}
	})
}

func TestTransactionHandler_GetUpcomingPayments(t *testing.T) {
	t.Run("defaults to thirty days", func(t *testing.T) {
		gotDays := -1
		txSvc := &mockTransactionService{
			getUpcomingPaymentsFn: func(asOf time.Time, days int) ([]services.UpcomingPayment, error) {
				if !asOf.IsZero() {
					t.Errorf("expected zero asOf so the service uses today, got %v", asOf)
				}
				gotDays = days
				return []services.UpcomingPayment{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions/upcoming", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotDays != 30 {
			t.Errorf("expected 30 days, got %d", gotDays)
		}
	})

	t.Run("returns 400 on negative days", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions/upcoming?days=-3", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_ExportTransactions(t *testing.T) {
	t.Run("writes csv with string amounts and dates", func(t *testing.T) {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		txSvc := &mockTransactionService{
			getAllTransactionsFn: func() ([]models.Transaction, error) {
				return []models.Transaction{{
					Base:        models.Base{ID: testID, CreatedAt: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
					Description: "Rent, flat 2",
					Amount:      decimal.RequireFromString("1200.5"),
					Type:        models.TransactionTypeExpense,
					Category:    "housing",
					Cycle:       models.CycleMonthly,
					StartDate:   &start,
				}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions/export", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
			t.Errorf("expected csv content type, got %s", rec.Header().Get("Content-Type"))
		}
		rows, err := csv.NewReader(rec.Body).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse csv: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected header and 1 row, got %d rows", len(rows))
		}
		row := rows[1]
		if row[2] != "Rent, flat 2" {
			t.Errorf("expected quoted description, got %q", row[2])
		}
		if row[6] != "1200.50" {
			t.Errorf("expected amount 1200.50, got %q", row[6])
		}
		if row[7] != "2024-01-01" || row[8] != "" {
			t.Errorf("expected start 2024-01-01 and empty end, got %q %q", row[7], row[8])
		}
	})
}

func TestTransactionHandler_ClassifyTransaction(t *testing.T) {
	t.Run("returns classification", func(t *testing.T) {
		amount := decimal.NewFromInt(50)
		c := &mockClassifier{classifyFn: func(_ context.Context, description string) (*classifier.Classification, error) {
			if description != "netflix 50 monthly" {
				t.Errorf("unexpected description %q", description)
			}
			return &classifier.Classification{
				Type:     models.TransactionTypeExpense,
				Category: "entertainment",
				Cycle:    models.CycleMonthly,
				Amount:   &amount,
			}, nil
		}}
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, c))

		rec := doRequest(r, "POST", "/transactions/classify", `{"description":"netflix 50 monthly"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)["classification"].(map[string]interface{})
		if result["category"] != "entertainment" || result["cycle"] != "monthly" {
			t.Errorf("unexpected classification %v", result)
		}
	})

	t.Run("returns 400 when nothing matched", func(t *testing.T) {
		c := &mockClassifier{classifyFn: func(context.Context, string) (*classifier.Classification, error) {
			return nil, classifier.ErrNoClassification
		}}
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, c))

		rec := doRequest(r, "POST", "/transactions/classify", `{"description":"???"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 503 on provider failure", func(t *testing.T) {
		c := &mockClassifier{classifyFn: func(context.Context, string) (*classifier.Classification, error) {
			return nil, errBoom
		}}
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, c))

		rec := doRequest(r, "POST", "/transactions/classify", `{"description":"coffee"}`)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "AI_UNAVAILABLE")
	})

	t.Run("returns 503 without classifier", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "POST", "/transactions/classify", `{"description":"coffee"}`)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactionByID(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions/"+testID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["id"] != testID {
			t.Errorf("expected id %s, got %v", testID, tx["id"])
		}
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getTransactionByIDFn: func(string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, nil))

		rec := doRequest(r, "GET", "/transactions/"+otherTestID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("passes only given fields", func(t *testing.T) {
		var got services.TransactionUpdateFields
		txSvc := &mockTransactionService{
			updateTransactionFn: func(id string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
				got = fields
				return &models.Transaction{Base: models.Base{ID: id}}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, audit, nil))

		rec := doRequest(r, "PUT", "/transactions/"+testID, `{"amount":"75.25","end_date":"2024-12-31"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount == nil || !got.Amount.Equal(decimal.RequireFromString("75.25")) {
			t.Errorf("expected amount 75.25, got %v", got.Amount)
		}
		if got.EndDate == nil || got.Description != nil || got.Category != nil {
			t.Errorf("unexpected fields %+v", got)
		}
		entry := assertAudited(t, audit, "UPDATE_TRANSACTION")
		if entry.changes["amount"] != "75.25" {
			t.Errorf("expected audited amount, got %v", entry.changes)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200 and audits", func(t *testing.T) {
		var deleted string
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(id string) error {
				deleted = id
				return nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, audit, nil))

		rec := doRequest(r, "DELETE", "/transactions/"+testID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != testID {
			t.Errorf("expected %s deleted, got %s", testID, deleted)
		}
		assertAudited(t, audit, "DELETE_TRANSACTION")
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(string) error { return apperrors.ErrTransactionNotFound },
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, audit, nil))

		rec := doRequest(r, "DELETE", "/transactions/"+testID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if len(audit.entries) != 0 {
			t.Errorf("expected no audit entry, got %v", audit.entries)
		}
	})
}
