package model

import "time"

// Transaction types written by the finance workflows.
const (
	TransactionRevenue         = "Revenue"
	TransactionPaymentReceived = "Payment Received"
	TransactionExpense         = "Expense"
	TransactionFarmerPayment   = "Farmer Payment"
)

// Invoice statuses.
const (
	InvoiceStatusIssued  = "Issued"
	InvoiceStatusPaid    = "Paid"
	InvoiceStatusOverdue = "Overdue"
)

// Transaction is one row in the financial ledger.
type Transaction struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	BusinessID        string    `json:"business_id" gorm:"type:varchar(50);not null;default:island_harvest;index"`
	Date              time.Time `json:"date" gorm:"not null;index"`
	Type              string    `json:"type" gorm:"type:varchar(50);not null"`
	Description       string    `json:"description,omitempty" gorm:"type:text"`
	Amount            float64   `json:"amount" gorm:"not null"`
	RelatedEntityID   uint      `json:"related_entity_id,omitempty"`
	RelatedEntityType string    `json:"related_entity_type,omitempty" gorm:"type:varchar(50)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Transaction) PrimaryKey() uint         { return t.ID }
func (t *Transaction) Business() string         { return t.BusinessID }
func (t *Transaction) AssignBusiness(id string) { t.BusinessID = id }

// TransactionPatch lists the mutable transaction fields.
type TransactionPatch struct {
	Date        *time.Time
	Type        *string
	Description *string
	Amount      *float64
}

func (p TransactionPatch) Changes() map[string]any {
	changes := map[string]any{}
	setTime(changes, "date", p.Date)
	setString(changes, "type", p.Type)
	setString(changes, "description", p.Description)
	setFloat(changes, "amount", p.Amount)
	return changes
}

// Invoice bills a customer for an order.
type Invoice struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	BusinessID  string    `json:"business_id" gorm:"type:varchar(50);not null;default:island_harvest;index"`
	CustomerID  uint      `json:"customer_id" gorm:"index;not null"`
	OrderID     uint      `json:"order_id" gorm:"index;not null"`
	InvoiceDate time.Time `json:"invoice_date" gorm:"not null"`
	DueDate     time.Time `json:"due_date" gorm:"not null"`
	TotalAmount float64   `json:"total_amount" gorm:"not null"`
	Status      string    `json:"status" gorm:"type:varchar(50);not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Order    *Order    `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}

func (i *Invoice) PrimaryKey() uint         { return i.ID }
func (i *Invoice) Business() string         { return i.BusinessID }
func (i *Invoice) AssignBusiness(id string) { i.BusinessID = id }

// InvoicePatch lists the mutable invoice fields.
type InvoicePatch struct {
	InvoiceDate *time.Time
	DueDate     *time.Time
	TotalAmount *float64
	Status      *string
}

func (p InvoicePatch) Changes() map[string]any {
	changes := map[string]any{}
	setTime(changes, "invoice_date", p.InvoiceDate)
	setTime(changes, "due_date", p.DueDate)
	setFloat(changes, "total_amount", p.TotalAmount)
	setString(changes, "status", p.Status)
	return changes
}
