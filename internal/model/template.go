package model

import "time"

// Template channels.
const (
	TemplateTypeWhatsApp = "whatsapp"
	TemplateTypeEmail    = "email"
)

// MessageTemplate is a reusable outbound message. Templates are shared
// across businesses, so there is no business column; names are globally
// unique.
type MessageTemplate struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	Type    string `json:"type" gorm:"type:varchar(50);not null"`
	Subject string `json:"subject,omitempty" gorm:"type:varchar(255)"`
	Body    string `json:"body" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageTemplatePatch lists the mutable template fields.
type MessageTemplatePatch struct {
	Name    *string
	Type    *string
	Subject *string
	Body    *string
}

func (p MessageTemplatePatch) Changes() map[string]any {
	changes := map[string]any{}
	setString(changes, "name", p.Name)
	setString(changes, "type", p.Type)
	setString(changes, "subject", p.Subject)
	setString(changes, "body", p.Body)
	return changes
}
