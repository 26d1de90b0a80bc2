package model

import "time"

// Farmer represents a local supplier.
type Farmer struct {
	ID                 uint   `json:"id" gorm:"primaryKey"`
	BusinessID         string `json:"business_id" gorm:"type:varchar(50);not null;default:island_harvest;uniqueIndex:idx_farmers_business_name"`
	Name               string `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_farmers_business_name"`
	ContactPerson      string `json:"contact_person,omitempty" gorm:"type:varchar(255)"`
	Phone              string `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Email              string `json:"email,omitempty" gorm:"type:varchar(255)"`
	Address            string `json:"address,omitempty" gorm:"type:text"`
	ProductSpecialties string `json:"product_specialties,omitempty" gorm:"type:text"` // serialized JSON
	PickupSchedule     string `json:"pickup_schedule,omitempty" gorm:"type:text"`     // serialized JSON
	QualityRecords     string `json:"quality_records,omitempty" gorm:"type:text"`     // serialized JSON
	PerformanceNotes   string `json:"performance_notes,omitempty" gorm:"type:text"`
	TrainingNeeds      string `json:"training_needs,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Payments []FarmerPayment `json:"payments,omitempty" gorm:"foreignKey:FarmerID"`
}

func (f *Farmer) PrimaryKey() uint         { return f.ID }
func (f *Farmer) Business() string         { return f.BusinessID }
func (f *Farmer) AssignBusiness(id string) { f.BusinessID = id }
func (f *Farmer) NaturalKey() string       { return f.Name }

// FarmerPayment records one payment to a farmer. It inherits the farmer's
// business and does not store its own business column.
type FarmerPayment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FarmerID    uint      `json:"farmer_id" gorm:"index;not null"`
	PaymentDate time.Time `json:"payment_date" gorm:"not null"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Notes       string    `json:"notes,omitempty" gorm:"type:text"`
}

// FarmerPatch lists the mutable farmer fields.
type FarmerPatch struct {
	Name               *string
	ContactPerson      *string
	Phone              *string
	Email              *string
	Address            *string
	ProductSpecialties *string
	PickupSchedule     *string
	QualityRecords     *string
	PerformanceNotes   *string
	TrainingNeeds      *string
}

func (p FarmerPatch) Changes() map[string]any {
	changes := map[string]any{}
	setString(changes, "name", p.Name)
	setString(changes, "contact_person", p.ContactPerson)
	setString(changes, "phone", p.Phone)
	setString(changes, "email", p.Email)
	setString(changes, "address", p.Address)
	setString(changes, "product_specialties", p.ProductSpecialties)
	setString(changes, "pickup_schedule", p.PickupSchedule)
	setString(changes, "quality_records", p.QualityRecords)
	setString(changes, "performance_notes", p.PerformanceNotes)
	setString(changes, "training_needs", p.TrainingNeeds)
	return changes
}
