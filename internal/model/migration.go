package model

import "time"

// MigrationRecord is one ledger row recording an applied schema-evolution
// step. A version appears at most once; re-recording updates the
// description and timestamp.
type MigrationRecord struct {
	Version     string    `json:"version" gorm:"type:varchar(50);primaryKey"`
	Description string    `json:"description" gorm:"type:text"`
	AppliedAt   time.Time `json:"applied_at"`
}

// TableName keeps the ledger under the conventional name.
func (MigrationRecord) TableName() string {
	return "schema_migrations"
}
