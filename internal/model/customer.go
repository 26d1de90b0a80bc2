package model

import "time"

// Customer represents a hotel or restaurant buying from a business.
type Customer struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	BusinessID        string `json:"business_id" gorm:"type:varchar(50);not null;default:island_harvest;uniqueIndex:idx_customers_business_name"`
	Name              string `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_business_name"`
	ContactPerson     string `json:"contact_person,omitempty" gorm:"type:varchar(255)"`
	Phone             string `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Email             string `json:"email,omitempty" gorm:"type:varchar(255)"`
	Address           string `json:"address,omitempty" gorm:"type:text"`
	Preferences       string `json:"preferences,omitempty" gorm:"type:text"` // serialized JSON, carried over from the legacy schema
	SatisfactionScore int    `json:"satisfaction_score,omitempty"`
	Feedback          string `json:"feedback,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Orders   []Order   `json:"orders,omitempty" gorm:"foreignKey:CustomerID"`
	Invoices []Invoice `json:"invoices,omitempty" gorm:"foreignKey:CustomerID"`
}

func (c *Customer) PrimaryKey() uint         { return c.ID }
func (c *Customer) Business() string         { return c.BusinessID }
func (c *Customer) AssignBusiness(id string) { c.BusinessID = id }
func (c *Customer) NaturalKey() string       { return c.Name }

// CustomerPatch lists the mutable customer fields. Nil fields are left
// untouched.
type CustomerPatch struct {
	Name              *string
	ContactPerson     *string
	Phone             *string
	Email             *string
	Address           *string
	Preferences       *string
	SatisfactionScore *int
	Feedback          *string
}

func (p CustomerPatch) Changes() map[string]any {
	changes := map[string]any{}
	setString(changes, "name", p.Name)
	setString(changes, "contact_person", p.ContactPerson)
	setString(changes, "phone", p.Phone)
	setString(changes, "email", p.Email)
	setString(changes, "address", p.Address)
	setString(changes, "preferences", p.Preferences)
	setInt(changes, "satisfaction_score", p.SatisfactionScore)
	setString(changes, "feedback", p.Feedback)
	return changes
}
