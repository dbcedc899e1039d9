package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"pennywise/internal/classifier"
	apperrors "pennywise/internal/errors"
	"pennywise/internal/logger"
	"pennywise/internal/models"
	"pennywise/internal/pagination"
	"pennywise/internal/services"
)

const defaultUpcomingDays = 30

var exportHeader = []string{
	"id", "created_at", "description", "type", "category", "cycle",
	"amount", "start_date", "end_date", "due_date",
}

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
	classifier         classifier.Classifier
}

// NewTransactionHandler creates a new TransactionHandler. A nil classifier
// makes the classify endpoint report the assistant as unavailable.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer, c classifier.Classifier) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService, classifier: c}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
// Dates accept YYYY-MM-DD or RFC3339. Recurring cycles require start_date.
type CreateTransactionRequest struct {
	Description string                 `json:"description" binding:"required,max=500"`
	Amount      decimal.Decimal        `json:"amount" swaggertype:"string" example:"12.50"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Category    string                 `json:"category" binding:"required,max=100"`
	Cycle       models.Cycle           `json:"cycle" binding:"omitempty,transaction_cycle"`
	StartDate   *string                `json:"start_date"`
	EndDate     *string                `json:"end_date"`
	DueDate     *string                `json:"due_date"`
	CreatedAt   *string                `json:"created_at"`
	Metadata    models.Metadata        `json:"metadata"`
}

// UpdateTransactionRequest represents the request payload for updating a transaction.
// Omitted fields keep their stored value.
type UpdateTransactionRequest struct {
	Description *string                 `json:"description" binding:"omitempty,max=500"`
	Amount      *decimal.Decimal        `json:"amount" swaggertype:"string" example:"12.50"`
	Type        *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	Category    *string                 `json:"category" binding:"omitempty,max=100"`
	Cycle       *models.Cycle           `json:"cycle" binding:"omitempty,transaction_cycle"`
	StartDate   *string                 `json:"start_date"`
	EndDate     *string                 `json:"end_date"`
	DueDate     *string                 `json:"due_date"`
	Metadata    *models.Metadata        `json:"metadata"`
}

// ClassifyRequest carries the free-text description to classify.
type ClassifyRequest struct {
	Description string `json:"description" binding:"required,max=500"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a one-off or recurring income or expense
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.CreateTransactionInput{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Cycle:       req.Cycle,
		Metadata:    req.Metadata,
	}
	var err error
	if input.StartDate, err = parseOptionalDate("start_date", req.StartDate); err != nil {
		respondWithError(c, err)
		return
	}
	if input.EndDate, err = parseOptionalDate("end_date", req.EndDate); err != nil {
		respondWithError(c, err)
		return
	}
	if input.DueDate, err = parseOptionalDate("due_date", req.DueDate); err != nil {
		respondWithError(c, err)
		return
	}
	if input.CreatedAt, err = parseOptionalDate("created_at", req.CreatedAt); err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]any{"type": transaction.Type, "amount": transaction.Amount.String(), "category": transaction.Category, "cycle": transaction.Cycle})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions handles the paginated transaction listing
// @Summary     Get transactions
// @Description Get a paginated list of transactions, newest first, with optional filters
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       from_date query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Param       type      query string false "Filter by transaction type (income, expense)"
// @Param       category  query string false "Filter by category"
// @Param       cycle     query string false "Filter by cycle (none, daily, weekly, monthly, yearly)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetTransactions(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter
	var err error

	if filter.FromDate, err = parseDateParam(c, "from_date"); err != nil {
		return filter, err
	}
	if filter.ToDate, err = parseDateParam(c, "to_date"); err != nil {
		return filter, err
	}

	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		if !txType.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be income or expense")
		}
		filter.Type = &txType
	}

	if v := c.Query("cycle"); v != "" {
		cycle := models.Cycle(v)
		if !cycle.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid cycle, must be none, daily, weekly, monthly, or yearly")
		}
		filter.Cycle = &cycle
	}

	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}

	return filter, nil
}

// GetAllTransactions handles listing the whole ledger
// @Summary     Get all transactions
// @Description Get every transaction, newest first, without pagination
// @Tags        transactions
// @Produce     json
// @Success     200 {array}  models.Transaction "Transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/all [get]
func (h *TransactionHandler) GetAllTransactions(c *gin.Context) {
	transactions, err := h.transactionService.GetAllTransactions()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetTransactionsForPeriod handles the window query
// @Summary     Get transactions for a period
// @Description Get the transactions falling in [start, end] with the amount each contributes to the window
// @Tags        transactions
// @Produce     json
// @Param       start query string true "Window start (RFC3339 or YYYY-MM-DD)"
// @Param       end   query string true "Window end, inclusive through the end of its day"
// @Success     200 {array}  services.PeriodTransaction "Transactions with calculated amounts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/period [get]
func (h *TransactionHandler) GetTransactionsForPeriod(c *gin.Context) {
	start, end, err := requiredWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetTransactionsForPeriod(start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func requiredWindow(c *gin.Context) (time.Time, time.Time, error) {
	start, err := parseDateParam(c, "start")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDateParam(c, "end")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start == nil || end == nil {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "start and end are required")
	}
	return *start, *end, nil
}

// GetSummary handles the per-category summary
// @Summary     Summarise transactions by category
// @Description Total transactions per category. With start and end, recurring transactions count for every occurrence in the window.
// @Tags        transactions
// @Produce     json
// @Param       start    query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param       end      query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Param       type     query string false "Filter by transaction type (income, expense)"
// @Param       category query string false "Filter by category"
// @Success     200 {object} map[string]string "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	var filter services.SummaryFilter
	var err error

	if filter.From, err = parseDateParam(c, "start"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.To, err = parseDateParam(c, "end"); err != nil {
		respondWithError(c, err)
		return
	}
	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		if !txType.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be income or expense"))
			return
		}
		filter.Type = &txType
	}
	filter.Category = c.Query("category")

	summary, err := h.transactionService.SummaryByCategory(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetUpcomingPayments handles the upcoming recurring payments query
// @Summary     Get upcoming payments
// @Description List recurring transactions falling due within the next days, soonest first
// @Tags        transactions
// @Produce     json
// @Param       days query int false "Look-ahead in days (default 30)"
// @Success     200 {array}  services.UpcomingPayment "Upcoming payments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/upcoming [get]
func (h *TransactionHandler) GetUpcomingPayments(c *gin.Context) {
	days := defaultUpcomingDays
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be a non-negative integer"))
			return
		}
		days = n
	}

	payments, err := h.transactionService.GetUpcomingPayments(time.Time{}, days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// ExportTransactions handles the CSV export
// @Summary     Export transactions
// @Description Download every transaction as CSV
// @Tags        transactions
// @Produce     text/csv
// @Success     200 {string} string "CSV file"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	transactions, err := h.transactionService.GetAllTransactions()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	rows := make([][]string, 0, len(transactions)+1)
	rows = append(rows, exportHeader)
	for i := range transactions {
		rows = append(rows, exportRow(&transactions[i]))
	}
	if err := w.WriteAll(rows); err != nil {
		logger.Get().Errorw("failed to write transaction export", "error", err)
	}
}

func exportRow(t *models.Transaction) []string {
	return []string{
		t.ID,
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.Description,
		string(t.Type),
		t.Category,
		string(t.Cycle),
		t.Amount.StringFixed(2),
		formatOptionalDate(t.StartDate),
		formatOptionalDate(t.EndDate),
		formatOptionalDate(t.DueDate),
	}
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// ClassifyTransaction handles description classification
// @Summary     Classify a description
// @Description Suggest type, category, cycle and amount for a free-text transaction description
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body ClassifyRequest true "Description"
// @Success     200 {object} classifier.Classification "Suggested fields"
// @Failure     400 {object} ErrorResponse "Invalid input or unclassifiable description"
// @Failure     503 {object} ErrorResponse "Classifier unavailable"
// @Router      /transactions/classify [post]
func (h *TransactionHandler) ClassifyTransaction(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if h.classifier == nil {
		respondWithError(c, apperrors.ErrAIUnavailable)
		return
	}

	result, err := h.classifier.Classify(c.Request.Context(), req.Description)
	if err != nil {
		if errors.Is(err, classifier.ErrNoClassification) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "could not classify the description"))
			return
		}
		respondWithError(c, apperrors.Wrap(apperrors.ErrAIUnavailable, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"classification": result})
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles updating an existing transaction
// @Summary     Update transaction
// @Description Update an existing transaction. The merged record is validated before it is saved.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input or transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.TransactionUpdateFields{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Cycle:       req.Cycle,
		Metadata:    req.Metadata,
	}
	if fields.StartDate, err = parseOptionalDate("start_date", req.StartDate); err != nil {
		respondWithError(c, err)
		return
	}
	if fields.EndDate, err = parseOptionalDate("end_date", req.EndDate); err != nil {
		respondWithError(c, err)
		return
	}
	if fields.DueDate, err = parseOptionalDate("due_date", req.DueDate); err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]any{}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.Amount != nil {
		changes["amount"] = req.Amount.String()
	}
	if req.Type != nil {
		changes["type"] = *req.Type
	}
	if req.Category != nil {
		changes["category"] = *req.Category
	}
	if req.Cycle != nil {
		changes["cycle"] = *req.Cycle
	}
	h.auditService.Log("UPDATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete transaction
// @Description Delete a transaction
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
