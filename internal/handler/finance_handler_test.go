package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bornfidis/harvesthub/internal/business"
	"github.com/bornfidis/harvesthub/internal/model"
)

// seedInvoiceParents creates the customer and order an invoice references.
func seedInvoiceParents(t *testing.T, s *testServer, businessID string) (uint, uint) {
	t.Helper()

	customer := model.Customer{Name: "Invoice Customer " + businessID}
	customer.AssignBusiness(businessID)
	require.NoError(t, s.store.DB().Create(&customer).Error)

	order := model.Order{
		CustomerID:   customer.ID,
		OrderDate:    time.Now(),
		DeliveryDate: time.Now().Add(48 * time.Hour),
		Status:       model.OrderStatusConfirmed,
		TotalAmount:  1200,
	}
	order.AssignBusiness(businessID)
	require.NoError(t, s.store.DB().Create(&order).Error)

	return customer.ID, order.ID
}

func countTransactions(t *testing.T, s *testServer, txType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.store.DB().Model(&model.Transaction{}).Where("type = ?", txType).Count(&n).Error)
	return n
}

func TestInvoiceCreateWritesLedgerRow(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, business.DefaultID, "manager")
	customerID, orderID := seedInvoiceParents(t, s, business.DefaultID)

	body := fmt.Sprintf(`{"customer_id":%d,"order_id":%d,"total_amount":1200}`, customerID, orderID)
	rec := s.request(t, http.MethodPost, "/api/invoices", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var invoice model.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
	assert.Equal(t, model.InvoiceStatusIssued, invoice.Status)
	assert.Equal(t, business.DefaultID, invoice.BusinessID)

	require.Equal(t, int64(1), countTransactions(t, s, model.TransactionRevenue))
	var entry model.Transaction
	require.NoError(t, s.store.DB().Where("type = ?", model.TransactionRevenue).First(&entry).Error)
	assert.Equal(t, invoice.ID, entry.RelatedEntityID)
	assert.Equal(t, invoice.TotalAmount, entry.Amount)
	assert.Equal(t, invoice.BusinessID, entry.BusinessID)
}

func TestInvoiceCreateLeavesNoPartialRows(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, business.DefaultID, "manager")

	// Dangling customer and order ids fail the insert.
	rec := s.request(t, http.MethodPost, "/api/invoices", token, `{"customer_id":99,"order_id":99,"total_amount":500}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var invoiceCount int64
	require.NoError(t, s.store.DB().Model(&model.Invoice{}).Count(&invoiceCount).Error)
	assert.Zero(t, invoiceCount)
	assert.Zero(t, countTransactions(t, s, model.TransactionRevenue))
}

func TestInvoicePaidPatchRecordsPaymentOnce(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, business.DefaultID, "manager")
	customerID, orderID := seedInvoiceParents(t, s, business.DefaultID)

	body := fmt.Sprintf(`{"customer_id":%d,"order_id":%d,"total_amount":800}`, customerID, orderID)
	rec := s.request(t, http.MethodPost, "/api/invoices", token, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var invoice model.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
	path := fmt.Sprintf("/api/invoices/%d", invoice.ID)

	rec = s.request(t, http.MethodPatch, path, token, `{"status":"Paid"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, int64(1), countTransactions(t, s, model.TransactionPaymentReceived))

	// Replaying the same patch must not record a second payment.
	rec = s.request(t, http.MethodPatch, path, token, `{"status":"Paid"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), countTransactions(t, s, model.TransactionPaymentReceived))

	var payment model.Transaction
	require.NoError(t, s.store.DB().Where("type = ?", model.TransactionPaymentReceived).First(&payment).Error)
	assert.Equal(t, invoice.ID, payment.RelatedEntityID)
	assert.Equal(t, float64(800), payment.Amount)
}

func TestTransactionByIDRejectsOtherBusiness(t *testing.T) {
	s := newTestServer(t)
	harvest := s.token(t, business.DefaultID, "manager")
	chef := s.token(t, "private_chef", "manager")
	owner := s.token(t, "private_chef", "owner")

	rec := s.request(t, http.MethodPost, "/api/transactions", harvest, `{"type":"Expense","amount":150,"description":"Crates"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	path := fmt.Sprintf("/api/transactions/%d", created.ID)

	rec = s.request(t, http.MethodGet, path, chef, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.request(t, http.MethodDelete, path, chef, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.request(t, http.MethodGet, path, owner, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.request(t, http.MethodGet, path, harvest, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
