package model

import "time"

// Order statuses used by the UI layer.
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// Order represents a customer order.
type Order struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	BusinessID   string    `json:"business_id" gorm:"type:varchar(50);not null;default:island_harvest;index"`
	CustomerID   uint      `json:"customer_id" gorm:"index;not null"`
	OrderDate    time.Time `json:"order_date" gorm:"not null"`
	DeliveryDate time.Time `json:"delivery_date" gorm:"not null"`
	Status       string    `json:"status" gorm:"type:varchar(50);not null"`
	TotalAmount  float64   `json:"total_amount"`
	Notes        string    `json:"notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Customer *Customer   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

func (o *Order) PrimaryKey() uint         { return o.ID }
func (o *Order) Business() string         { return o.BusinessID }
func (o *Order) AssignBusiness(id string) { o.BusinessID = id }

// OrderItem is one product line within an order. It inherits the order's
// business and does not store its own business column.
type OrderItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	OrderID     uint    `json:"order_id" gorm:"index;not null"`
	ProductName string  `json:"product_name" gorm:"type:varchar(255);not null"`
	Quantity    float64 `json:"quantity" gorm:"not null"`
	UnitPrice   float64 `json:"unit_price" gorm:"not null"`
	Subtotal    float64 `json:"subtotal"`
}

// OrderPatch lists the mutable order fields.
type OrderPatch struct {
	OrderDate    *time.Time
	DeliveryDate *time.Time
	Status       *string
	TotalAmount  *float64
	Notes        *string
}

func (p OrderPatch) Changes() map[string]any {
	changes := map[string]any{}
	setTime(changes, "order_date", p.OrderDate)
	setTime(changes, "delivery_date", p.DeliveryDate)
	setString(changes, "status", p.Status)
	setFloat(changes, "total_amount", p.TotalAmount)
	setString(changes, "notes", p.Notes)
	return changes
}
