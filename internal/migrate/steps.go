package migrate

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/bornfidis/harvesthub/internal/business"
)

// AllSteps returns every shipped migration step. RunPending sorts them, but
// keep the list in version order anyway.
func AllSteps() []Step {
	return []Step{
		addBusinessID{},
		requireBusinessID{},
		backfillBusinessTables{},
	}
}

func tableExists(tx *gorm.DB, table string) (bool, error) {
	var n int64
	err := tx.Raw(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n).Error
	return n > 0, err
}

func columnExists(tx *gorm.DB, table, column string) (bool, error) {
	var n int64
	err := tx.Raw(`SELECT count(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n).Error
	return n > 0, err
}

func columnNotNull(tx *gorm.DB, table, column string) (bool, error) {
	var n int64
	err := tx.Raw(`SELECT count(*) FROM pragma_table_info(?) WHERE name = ? AND "notnull" = 1`, table, column).Scan(&n).Error
	return n > 0, err
}

// ensureBusinessColumn adds the business_id column to a table if the table
// exists and the column is missing, then backfills null or empty values to
// the default business. Safe to re-run.
func ensureBusinessColumn(tx *gorm.DB, table string) error {
	exists, err := tableExists(tx, table)
	if err != nil {
		return err
	}
	if !exists {
		// Table will be created with the column by EnsureCreated.
		return nil
	}

	hasColumn, err := columnExists(tx, table, "business_id")
	if err != nil {
		return err
	}
	if !hasColumn {
		ddl := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN business_id VARCHAR(50) DEFAULT '%s'`, table, business.DefaultID)
		if err := tx.Exec(ddl).Error; err != nil {
			return err
		}
	}

	backfill := fmt.Sprintf(`UPDATE %s SET business_id = ? WHERE business_id IS NULL OR business_id = ''`, table)
	return tx.Exec(backfill, business.DefaultID).Error
}

// addBusinessID introduces the business partitioning column on the
// customers table and backfills pre-partitioning rows.
type addBusinessID struct{}

func (addBusinessID) Version() string { return "001" }

func (addBusinessID) Description() string {
	return "Add business_id column to customers table"
}

func (addBusinessID) Apply(tx *gorm.DB) error {
	return ensureBusinessColumn(tx, "customers")
}

func (addBusinessID) Revert(tx *gorm.DB) error {
	// Dropping the column needs a table rebuild that risks data loss.
	return ErrRevertNotSupported
}

// requireBusinessID tightens customers.business_id to NOT NULL and adds the
// per-business name uniqueness index. SQLite cannot alter constraints in
// place, so legacy tables are rebuilt with a create-copy-drop-rename
// sequence.
type requireBusinessID struct{}

func (requireBusinessID) Version() string { return "002" }

func (requireBusinessID) Description() string {
	return "Enforce NOT NULL business_id and per-business name uniqueness on customers"
}

func (requireBusinessID) Apply(tx *gorm.DB) error {
	exists, err := tableExists(tx, "customers")
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	// The column must be present and backfilled before tightening.
	if err := ensureBusinessColumn(tx, "customers"); err != nil {
		return err
	}

	notNull, err := columnNotNull(tx, "customers", "business_id")
	if err != nil {
		return err
	}
	if !notNull {
		statements := []string{
			fmt.Sprintf(`CREATE TABLE customers_rebuild (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				business_id VARCHAR(50) NOT NULL DEFAULT '%s',
				name VARCHAR(255) NOT NULL,
				contact_person VARCHAR(255),
				phone VARCHAR(50),
				email VARCHAR(255),
				address TEXT,
				preferences TEXT,
				satisfaction_score INTEGER,
				feedback TEXT,
				created_at DATETIME,
				updated_at DATETIME
			)`, business.DefaultID),
			fmt.Sprintf(`INSERT INTO customers_rebuild
				(id, business_id, name, contact_person, phone, email, address, preferences, satisfaction_score, feedback, created_at, updated_at)
				SELECT id, COALESCE(NULLIF(business_id, ''), '%s'), name, contact_person, phone, email, address, preferences, satisfaction_score, feedback, created_at, updated_at
				FROM customers`, business.DefaultID),
			`DROP TABLE customers`,
			`ALTER TABLE customers_rebuild RENAME TO customers`,
		}
		for _, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
	}

	return tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_business_name ON customers(business_id, name)`).Error
}

func (requireBusinessID) Revert(tx *gorm.DB) error {
	return ErrRevertNotSupported
}

// backfillBusinessTables extends the business column to the remaining
// business-partitioned tables.
type backfillBusinessTables struct{}

func (backfillBusinessTables) Version() string { return "003" }

func (backfillBusinessTables) Description() string {
	return "Add and backfill business_id on remaining business tables"
}

func (backfillBusinessTables) Apply(tx *gorm.DB) error {
	tables := []string{"farmers", "orders", "transactions", "invoices", "daily_logs", "goals"}
	for _, table := range tables {
		if err := ensureBusinessColumn(tx, table); err != nil {
			return fmt.Errorf("backfill %s: %w", table, err)
		}
	}
	return nil
}

func (backfillBusinessTables) Revert(tx *gorm.DB) error {
	return ErrRevertNotSupported
}
