package model

import "time"

// DailyLog records one day of operations for a business.
type DailyLog struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	BusinessID          string    `json:"business_id" gorm:"type:varchar(50);not null;default:island_harvest;index"`
	LogDate             time.Time `json:"log_date" gorm:"not null;index"`
	OrdersFulfilled     int       `json:"orders_fulfilled"`
	QualityControlNotes string    `json:"quality_control_notes,omitempty" gorm:"type:text"`
	TemperatureLogs     string    `json:"temperature_logs,omitempty" gorm:"type:text"` // serialized JSON
	DeliveryRouteNotes  string    `json:"delivery_route_notes,omitempty" gorm:"type:text"`
	IssueTracking       string    `json:"issue_tracking,omitempty" gorm:"type:text"` // serialized JSON

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *DailyLog) PrimaryKey() uint         { return d.ID }
func (d *DailyLog) Business() string         { return d.BusinessID }
func (d *DailyLog) AssignBusiness(id string) { d.BusinessID = id }

// DailyLogPatch lists the mutable daily log fields.
type DailyLogPatch struct {
	LogDate             *time.Time
	OrdersFulfilled     *int
	QualityControlNotes *string
	TemperatureLogs     *string
	DeliveryRouteNotes  *string
	IssueTracking       *string
}

func (p DailyLogPatch) Changes() map[string]any {
	changes := map[string]any{}
	setTime(changes, "log_date", p.LogDate)
	setInt(changes, "orders_fulfilled", p.OrdersFulfilled)
	setString(changes, "quality_control_notes", p.QualityControlNotes)
	setString(changes, "temperature_logs", p.TemperatureLogs)
	setString(changes, "delivery_route_notes", p.DeliveryRouteNotes)
	setString(changes, "issue_tracking", p.IssueTracking)
	return changes
}
