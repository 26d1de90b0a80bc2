package model

import "time"

// Goal statuses.
const (
	GoalStatusActive    = "Active"
	GoalStatusCompleted = "Completed"
	GoalStatusAbandoned = "Abandoned"
)

// Goal tracks one strategic target for a business.
type Goal struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	BusinessID   string    `json:"business_id" gorm:"type:varchar(50);not null;default:island_harvest;uniqueIndex:idx_goals_business_name"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_goals_business_name"`
	Description  string    `json:"description,omitempty" gorm:"type:text"`
	TargetValue  float64   `json:"target_value"`
	CurrentValue float64   `json:"current_value" gorm:"default:0"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Status       string    `json:"status" gorm:"type:varchar(50);not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g *Goal) PrimaryKey() uint         { return g.ID }
func (g *Goal) Business() string         { return g.BusinessID }
func (g *Goal) AssignBusiness(id string) { g.BusinessID = id }
func (g *Goal) NaturalKey() string       { return g.Name }

// GoalPatch lists the mutable goal fields.
type GoalPatch struct {
	Name         *string
	Description  *string
	TargetValue  *float64
	CurrentValue *float64
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *string
}

func (p GoalPatch) Changes() map[string]any {
	changes := map[string]any{}
	setString(changes, "name", p.Name)
	setString(changes, "description", p.Description)
	setFloat(changes, "target_value", p.TargetValue)
	setFloat(changes, "current_value", p.CurrentValue)
	setTime(changes, "start_date", p.StartDate)
	setTime(changes, "end_date", p.EndDate)
	setString(changes, "status", p.Status)
	return changes
}
