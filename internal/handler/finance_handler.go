package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bornfidis/harvesthub/internal/model"
	"github.com/bornfidis/harvesthub/internal/repository"
	"github.com/bornfidis/harvesthub/internal/service"
	"github.com/bornfidis/harvesthub/pkg/database"
	"github.com/bornfidis/harvesthub/pkg/logger"
	"github.com/bornfidis/harvesthub/prometheus"
)

// FinanceHandler serves the transaction ledger, invoices and summaries.
type FinanceHandler struct {
	store        *database.Store
	transactions *repository.Repository[model.Transaction, *model.Transaction]
	invoices     *repository.Repository[model.Invoice, *model.Invoice]
	finance      *service.FinanceService
}

// NewFinanceHandler constructs the handler over its repositories and the
// finance service. The store is used where an invoice and its ledger row
// must commit together.
func NewFinanceHandler(
	store *database.Store,
	transactions *repository.Repository[model.Transaction, *model.Transaction],
	invoices *repository.Repository[model.Invoice, *model.Invoice],
	finance *service.FinanceService,
) *FinanceHandler {
	return &FinanceHandler{store: store, transactions: transactions, invoices: invoices, finance: finance}
}

// Register mounts the finance routes.
func (h *FinanceHandler) Register(g *echo.Group) {
	g.POST("/transactions", h.CreateTransaction)
	g.GET("/transactions", h.ListTransactions)
	g.GET("/transactions/:id", h.GetTransaction)
	g.DELETE("/transactions/:id", h.DeleteTransaction)
	g.POST("/invoices", h.CreateInvoice)
	g.GET("/invoices", h.ListInvoices)
	g.PATCH("/invoices/:id", h.UpdateInvoice)
	g.GET("/summary/revenue", h.Revenue)
	g.GET("/summary/expenses", h.Expenses)
	g.GET("/summary/profit-loss", h.ProfitLoss)
	g.GET("/summary/receivables", h.Receivables)
}

// CreateTransaction records one ledger row.
func (h *FinanceHandler) CreateTransaction(c echo.Context) error {
	log := logger.FromEcho(c)

	businessID, err := businessFrom(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		Date              time.Time `json:"date"`
		Type              string    `json:"type"`
		Description       string    `json:"description"`
		Amount            float64   `json:"amount"`
		RelatedEntityID   uint      `json:"related_entity_id"`
		RelatedEntityType string    `json:"related_entity_type"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse transaction request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Type == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	transaction := model.Transaction{
		Date:              req.Date,
		Type:              req.Type,
		Description:       req.Description,
		Amount:            req.Amount,
		RelatedEntityID:   req.RelatedEntityID,
		RelatedEntityType: req.RelatedEntityType,
	}
	if err := h.transactions.Create(c.Request().Context(), businessID, &transaction); err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("transaction", "create", businessID)
	return c.JSON(http.StatusCreated, transaction)
}

// ListTransactions lists the ledger in scope, newest first.
func (h *FinanceHandler) ListTransactions(c echo.Context) error {
	scope, err := scopeFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	transactions, err := h.transactions.List(c.Request().Context(), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, transactions)
}

// GetTransaction retrieves one ledger row.
func (h *FinanceHandler) GetTransaction(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	transaction, err := h.transactions.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, transaction.BusinessID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction hard-deletes a ledger row.
func (h *FinanceHandler) DeleteTransaction(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	existing, err := h.transactions.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, existing.BusinessID); err != nil {
		return writeError(c, err)
	}
	deleted, err := h.transactions.Delete(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateInvoice issues an invoice and records the matching revenue
// transaction, as the finance workflow in the UI expects.
func (h *FinanceHandler) CreateInvoice(c echo.Context) error {
	log := logger.FromEcho(c)

	businessID, err := businessFrom(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		CustomerID  uint      `json:"customer_id"`
		OrderID     uint      `json:"order_id"`
		InvoiceDate time.Time `json:"invoice_date"`
		DueDate     time.Time `json:"due_date"`
		TotalAmount float64   `json:"total_amount"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.CustomerID == 0 || req.OrderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id and order_id are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	invoice := model.Invoice{
		CustomerID:  req.CustomerID,
		OrderID:     req.OrderID,
		InvoiceDate: req.InvoiceDate,
		DueDate:     req.DueDate,
		TotalAmount: req.TotalAmount,
		Status:      model.InvoiceStatusIssued,
	}
	invoice.AssignBusiness(businessID)

	// The invoice and its revenue entry commit together or not at all.
	err = h.store.DB().WithContext(c.Request().Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		entry := model.Transaction{
			Date:              invoice.InvoiceDate,
			Type:              model.TransactionRevenue,
			Description:       "Invoice issued",
			Amount:            invoice.TotalAmount,
			RelatedEntityID:   invoice.ID,
			RelatedEntityType: "Invoice",
		}
		entry.AssignBusiness(businessID)
		return tx.Create(&entry).Error
	})
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("invoice", "create", businessID)
	log.Info("Invoice issued",
		zap.Uint("id", invoice.ID),
		zap.Uint("customer_id", invoice.CustomerID),
		zap.Float64("total", invoice.TotalAmount))
	return c.JSON(http.StatusCreated, invoice)
}

// ListInvoices lists invoices in scope, newest first.
func (h *FinanceHandler) ListInvoices(c echo.Context) error {
	scope, err := scopeFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	invoices, err := h.invoices.List(c.Request().Context(), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, invoices)
}

// UpdateInvoice applies a partial update, typically a status change. A
// payment-received transaction is recorded when an invoice becomes paid.
func (h *FinanceHandler) UpdateInvoice(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		InvoiceDate *time.Time `json:"invoice_date"`
		DueDate     *time.Time `json:"due_date"`
		TotalAmount *float64   `json:"total_amount"`
		Status      *string    `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	existing, err := h.invoices.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, existing.BusinessID); err != nil {
		return writeError(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	invoice, err := h.invoices.Update(c.Request().Context(), id, model.InvoicePatch{
		InvoiceDate: req.InvoiceDate,
		DueDate:     req.DueDate,
		TotalAmount: req.TotalAmount,
		Status:      req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}

	// Payment is recorded only when the invoice transitions into the paid
	// state; repeating the same patch must not inflate the ledger.
	if req.Status != nil && *req.Status == model.InvoiceStatusPaid && existing.Status != model.InvoiceStatusPaid {
		payment := model.Transaction{
			Date:              time.Now(),
			Type:              model.TransactionPaymentReceived,
			Description:       "Invoice paid",
			Amount:            invoice.TotalAmount,
			RelatedEntityID:   invoice.ID,
			RelatedEntityType: "Invoice",
		}
		if err := h.transactions.Create(c.Request().Context(), invoice.BusinessID, &payment); err != nil {
			return writeError(c, err)
		}
	}

	prometheus.RecordEntityOperation("invoice", "update", invoice.BusinessID)
	return c.JSON(http.StatusOK, invoice)
}

// Revenue returns the revenue summary for the caller's business.
func (h *FinanceHandler) Revenue(c echo.Context) error {
	businessID, err := businessFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	summary, err := h.finance.Revenue(c.Request().Context(), businessID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Expenses returns the expense summary for the caller's business.
func (h *FinanceHandler) Expenses(c echo.Context) error {
	businessID, err := businessFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	summary, err := h.finance.Expenses(c.Request().Context(), businessID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// ProfitLoss returns the combined revenue and expense summary for the
// caller's business.
func (h *FinanceHandler) ProfitLoss(c echo.Context) error {
	businessID, err := businessFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	summary, err := h.finance.ProfitLoss(c.Request().Context(), businessID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Receivables returns the unpaid invoice summary for the caller's business.
func (h *FinanceHandler) Receivables(c echo.Context) error {
	businessID, err := businessFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	summary, err := h.finance.Receivables(c.Request().Context(), businessID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
