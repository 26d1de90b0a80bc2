// Package migrate sequences and records schema-evolution steps so each runs
// at most once, in increasing version order. A step and its ledger record
// commit together; the first failure stops the run so later steps can assume
// earlier ones succeeded.
package migrate

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bornfidis/harvesthub/internal/model"
	"github.com/bornfidis/harvesthub/pkg/database"
	"github.com/bornfidis/harvesthub/prometheus"
)

// Step is one versioned, idempotent schema-evolution unit. Apply must
// inspect current schema state and perform only the minimal remaining work,
// so re-running after partial manual intervention never errors on work
// already done.
type Step interface {
	Version() string
	Description() string
	Apply(tx *gorm.DB) error
	Revert(tx *gorm.DB) error
}

// ErrRevertNotSupported is returned by steps whose rollback has no safe
// definition (dropping a column needs a rebuild that risks data loss).
var ErrRevertNotSupported = errors.New("revert not supported")

// StepError reports a failed step with its version.
type StepError struct {
	Version string
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("migration %s: %v", e.Version, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Status summarizes the ledger for diagnostics.
type Status struct {
	AppliedCount    int      `json:"applied_count"`
	AppliedVersions []string `json:"applied_versions"`
	StorePath       string   `json:"store_path"`
	StoreExists     bool     `json:"store_exists"`
}

// Runner sequences steps against one store.
type Runner struct {
	store *database.Store
	log   *zap.Logger
	quiet bool
}

// NewRunner constructs a runner. When quiet is set, per-step informational
// logging is suppressed; failures are always logged.
func NewRunner(store *database.Store, log *zap.Logger, quiet bool) *Runner {
	return &Runner{store: store, log: log, quiet: quiet}
}

// EnsureLedger creates the ledger table if missing. Idempotent.
func (r *Runner) EnsureLedger() error {
	err := r.store.DB().Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(50) PRIMARY KEY,
			description TEXT,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`).Error
	if err != nil {
		return fmt.Errorf("create migration ledger: %w", err)
	}
	return nil
}

// Applied returns all recorded versions in ascending order. An unreadable
// ledger (missing table on a fresh store) yields an empty set, not an
// error.
func (r *Runner) Applied() []string {
	var versions []string
	err := r.store.DB().
		Model(&model.MigrationRecord{}).
		Order("version ASC").
		Pluck("version", &versions).Error
	if err != nil {
		r.log.Debug("migration ledger not readable", zap.Error(err))
		return nil
	}
	return versions
}

// IsApplied reports whether a version is recorded in the ledger.
func (r *Runner) IsApplied(version string) bool {
	for _, v := range r.Applied() {
		if v == version {
			return true
		}
	}
	return false
}

// record upserts the ledger row for a step. Re-recording a version updates
// its description and timestamp rather than erroring.
func (r *Runner) record(tx *gorm.DB, step Step) error {
	rec := model.MigrationRecord{
		Version:     step.Version(),
		Description: step.Description(),
		AppliedAt:   time.Now(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "version"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "applied_at"}),
	}).Create(&rec).Error
}

// Run applies a single step unless it is already recorded. The step's Apply
// and the ledger record commit in one transaction; both roll back on
// failure.
func (r *Runner) Run(step Step) error {
	if r.IsApplied(step.Version()) {
		if !r.quiet {
			r.log.Info("migration already applied, skipping",
				zap.String("version", step.Version()),
				zap.String("description", step.Description()))
		}
		prometheus.RecordMigration("skipped")
		return nil
	}

	if !r.quiet {
		r.log.Info("applying migration",
			zap.String("version", step.Version()),
			zap.String("description", step.Description()))
	}

	err := r.store.DB().Transaction(func(tx *gorm.DB) error {
		if err := step.Apply(tx); err != nil {
			return err
		}
		return r.record(tx, step)
	})
	if err != nil {
		serr := &StepError{Version: step.Version(), Err: err}
		r.log.Error("migration failed",
			zap.String("version", step.Version()),
			zap.Error(err))
		prometheus.RecordMigration("failed")
		return serr
	}

	prometheus.RecordMigration("applied")
	if !r.quiet {
		r.log.Info("migration applied", zap.String("version", step.Version()))
	}
	return nil
}

// RunPending runs all pending steps in ascending version order. Processing
// stops at the first failure: the failing version is marked false and later
// versions are not attempted, so partial out-of-order application never
// occurs. The returned error is the failing step's error, if any.
func (r *Runner) RunPending(steps []Step) (map[string]bool, error) {
	if err := r.EnsureLedger(); err != nil {
		return nil, err
	}

	ordered := make([]Step, len(steps))
	copy(ordered, steps)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Version() < ordered[j].Version()
	})

	results := make(map[string]bool, len(ordered))
	for _, step := range ordered {
		if err := r.Run(step); err != nil {
			results[step.Version()] = false
			return results, err
		}
		results[step.Version()] = true
	}
	return results, nil
}

// Status reports the ledger state for the admin surface.
func (r *Runner) Status() Status {
	applied := r.Applied()
	return Status{
		AppliedCount:    len(applied),
		AppliedVersions: applied,
		StorePath:       r.store.Path(),
		StoreExists:     r.store.Exists(),
	}
}
