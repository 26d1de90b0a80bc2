// Package model defines the persisted entity tables for the Harvest Hub
// business store. Nearly every row-owning entity carries a business_id
// column partitioning it by business; child rows (order items, farmer
// payments) reference their parent and inherit its business implicitly.
package model

// BusinessEntity is implemented by every business-partitioned entity.
type BusinessEntity interface {
	PrimaryKey() uint
	Business() string
	AssignBusiness(id string)
}

// NaturalKeyed is implemented by entities with a per-business natural key
// (duplicate values are rejected within one business, allowed across
// businesses).
type NaturalKeyed interface {
	NaturalKey() string
}

// Patch is a typed partial-update command. Changes returns only the fields
// that were explicitly provided, keyed by column name.
type Patch interface {
	Changes() map[string]any
}

// Tables returns every model migrated into the store.
func Tables() []any {
	return []any{
		&Customer{},
		&Farmer{},
		&FarmerPayment{},
		&Order{},
		&OrderItem{},
		&Transaction{},
		&Invoice{},
		&DailyLog{},
		&Goal{},
		&MessageTemplate{},
		&MigrationRecord{},
	}
}
