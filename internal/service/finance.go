// Package service holds the reporting helpers layered on the repository.
// Aggregations read business-scoped rows into memory and reduce; data
// volumes are small enough that no streaming is needed.
package service

import (
	"context"
	"strings"

	"github.com/bornfidis/harvesthub/internal/model"
	"github.com/bornfidis/harvesthub/internal/repository"
)

// FinanceService produces per-business financial summaries.
type FinanceService struct {
	transactions *repository.Repository[model.Transaction, *model.Transaction]
	invoices     *repository.Repository[model.Invoice, *model.Invoice]
}

// NewFinanceService constructs the finance service over the two ledgers it
// reads.
func NewFinanceService(
	transactions *repository.Repository[model.Transaction, *model.Transaction],
	invoices *repository.Repository[model.Invoice, *model.Invoice],
) *FinanceService {
	return &FinanceService{transactions: transactions, invoices: invoices}
}

// RevenueSummary aggregates revenue transactions.
type RevenueSummary struct {
	TotalRevenue       float64            `json:"total_revenue"`
	TransactionCount   int                `json:"transaction_count"`
	AverageTransaction float64            `json:"average_transaction"`
	MonthlyBreakdown   map[string]float64 `json:"monthly_breakdown"`
}

// ExpenseSummary aggregates expense transactions.
type ExpenseSummary struct {
	TotalExpenses     float64            `json:"total_expenses"`
	TransactionCount  int                `json:"transaction_count"`
	AverageExpense    float64            `json:"average_expense"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
	MonthlyBreakdown  map[string]float64 `json:"monthly_breakdown"`
}

// ProfitLossSummary combines revenue and expenses.
type ProfitLossSummary struct {
	TotalRevenue           float64        `json:"total_revenue"`
	TotalExpenses          float64        `json:"total_expenses"`
	NetProfit              float64        `json:"net_profit"`
	ProfitMarginPercentage float64        `json:"profit_margin_percentage"`
	Revenue                RevenueSummary `json:"revenue_breakdown"`
	Expenses               ExpenseSummary `json:"expense_breakdown"`
}

// ReceivablesSummary aggregates unpaid invoices.
type ReceivablesSummary struct {
	TotalOutstanding float64          `json:"total_outstanding"`
	InvoiceCount     int              `json:"invoice_count"`
	ByCustomer       map[uint]float64 `json:"by_customer"`
}

func isRevenue(t model.Transaction) bool {
	return t.Type == model.TransactionRevenue || t.Type == model.TransactionPaymentReceived
}

func isExpense(t model.Transaction) bool {
	return t.Type == model.TransactionExpense || t.Type == model.TransactionFarmerPayment
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Revenue summarizes revenue transactions for one business.
func (s *FinanceService) Revenue(ctx context.Context, businessID string) (*RevenueSummary, error) {
	transactions, err := s.transactions.List(ctx, repository.ForBusiness(businessID))
	if err != nil {
		return nil, err
	}

	summary := &RevenueSummary{MonthlyBreakdown: map[string]float64{}}
	for _, t := range transactions {
		if !isRevenue(t) {
			continue
		}
		summary.TotalRevenue += t.Amount
		summary.TransactionCount++
		month := t.Date.Format("2006-01")
		summary.MonthlyBreakdown[month] += t.Amount
	}
	if summary.TransactionCount > 0 {
		summary.AverageTransaction = summary.TotalRevenue / float64(summary.TransactionCount)
	}
	return summary, nil
}

// Expenses summarizes expense transactions for one business. Categories are
// taken from the description prefix before the first colon.
func (s *FinanceService) Expenses(ctx context.Context, businessID string) (*ExpenseSummary, error) {
	transactions, err := s.transactions.List(ctx, repository.ForBusiness(businessID))
	if err != nil {
		return nil, err
	}

	summary := &ExpenseSummary{
		CategoryBreakdown: map[string]float64{},
		MonthlyBreakdown:  map[string]float64{},
	}
	for _, t := range transactions {
		if !isExpense(t) {
			continue
		}
		amount := abs(t.Amount)
		summary.TotalExpenses += amount
		summary.TransactionCount++

		category := "Other"
		if before, _, found := strings.Cut(t.Description, ":"); found {
			category = before
		}
		summary.CategoryBreakdown[category] += amount
		summary.MonthlyBreakdown[t.Date.Format("2006-01")] += amount
	}
	if summary.TransactionCount > 0 {
		summary.AverageExpense = summary.TotalExpenses / float64(summary.TransactionCount)
	}
	return summary, nil
}

// ProfitLoss combines the revenue and expense summaries for one business.
func (s *FinanceService) ProfitLoss(ctx context.Context, businessID string) (*ProfitLossSummary, error) {
	revenue, err := s.Revenue(ctx, businessID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.Expenses(ctx, businessID)
	if err != nil {
		return nil, err
	}

	summary := &ProfitLossSummary{
		TotalRevenue:  revenue.TotalRevenue,
		TotalExpenses: expenses.TotalExpenses,
		NetProfit:     revenue.TotalRevenue - expenses.TotalExpenses,
		Revenue:       *revenue,
		Expenses:      *expenses,
	}
	if summary.TotalRevenue > 0 {
		summary.ProfitMarginPercentage = summary.NetProfit / summary.TotalRevenue * 100
	}
	return summary, nil
}

// Receivables summarizes unpaid invoices for one business.
func (s *FinanceService) Receivables(ctx context.Context, businessID string) (*ReceivablesSummary, error) {
	invoices, err := s.invoices.List(ctx, repository.ForBusiness(businessID))
	if err != nil {
		return nil, err
	}

	summary := &ReceivablesSummary{ByCustomer: map[uint]float64{}}
	for _, inv := range invoices {
		if inv.Status == model.InvoiceStatusPaid {
			continue
		}
		summary.TotalOutstanding += inv.TotalAmount
		summary.InvoiceCount++
		summary.ByCustomer[inv.CustomerID] += inv.TotalAmount
	}
	return summary, nil
}
