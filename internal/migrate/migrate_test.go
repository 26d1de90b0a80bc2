package migrate

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bornfidis/harvesthub/internal/business"
	"github.com/bornfidis/harvesthub/pkg/config"
	"github.com/bornfidis/harvesthub/pkg/database"
	metrics "github.com/bornfidis/harvesthub/prometheus"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()

	cfg := &config.Config{
		Store: config.StoreConfig{
			Path:         filepath.Join(t.TempDir(), "test.db"),
			BusyTimeout:  5 * time.Second,
			MaxIdleConns: 1,
			MaxOpenConns: 1,
			LogLevel:     gormlogger.Silent,
		},
		SilentInit: true,
	}
	store, err := database.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestRunner(t *testing.T) (*database.Store, *Runner) {
	t.Helper()
	store := newTestStore(t)
	return store, NewRunner(store, zap.NewNop(), true)
}

// fakeStep fails on demand so ordering and stop-on-failure can be observed.
type fakeStep struct {
	version string
	fail    bool
	applied *[]string
}

func (s fakeStep) Version() string     { return s.version }
func (s fakeStep) Description() string { return "fake step " + s.version }

func (s fakeStep) Apply(tx *gorm.DB) error {
	if s.fail {
		return errors.New("boom")
	}
	*s.applied = append(*s.applied, s.version)
	return nil
}

func (s fakeStep) Revert(tx *gorm.DB) error { return ErrRevertNotSupported }

func TestRunRecordsAndSkips(t *testing.T) {
	_, runner := newTestRunner(t)
	require.NoError(t, runner.EnsureLedger())

	var applied []string
	step := fakeStep{version: "001", applied: &applied}

	require.NoError(t, runner.Run(step))
	assert.Equal(t, []string{"001"}, applied)
	assert.True(t, runner.IsApplied("001"))

	// Second run is a no-op, not a re-application.
	require.NoError(t, runner.Run(step))
	assert.Equal(t, []string{"001"}, applied)
}

func TestRunCountsOutcomes(t *testing.T) {
	_, runner := newTestRunner(t)
	require.NoError(t, runner.EnsureLedger())

	var applied []string
	step := fakeStep{version: "001", applied: &applied}

	appliedBefore := testutil.ToFloat64(metrics.MigrationCounter.WithLabelValues("applied"))
	skippedBefore := testutil.ToFloat64(metrics.MigrationCounter.WithLabelValues("skipped"))

	require.NoError(t, runner.Run(step))
	assert.Equal(t, appliedBefore+1, testutil.ToFloat64(metrics.MigrationCounter.WithLabelValues("applied")))

	// An already-recorded step counts as skipped, not applied again.
	require.NoError(t, runner.Run(step))
	assert.Equal(t, skippedBefore+1, testutil.ToFloat64(metrics.MigrationCounter.WithLabelValues("skipped")))
	assert.Equal(t, appliedBefore+1, testutil.ToFloat64(metrics.MigrationCounter.WithLabelValues("applied")))
}

func TestRunRollsBackFailedStep(t *testing.T) {
	_, runner := newTestRunner(t)
	require.NoError(t, runner.EnsureLedger())

	var applied []string
	err := runner.Run(fakeStep{version: "001", fail: true, applied: &applied})
	require.Error(t, err)

	var serr *StepError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "001", serr.Version)
	assert.False(t, runner.IsApplied("001"))
}

func TestRunPendingOrdersAndStopsOnFailure(t *testing.T) {
	_, runner := newTestRunner(t)

	var applied []string
	steps := []Step{
		// Deliberately out of order; RunPending must sort.
		fakeStep{version: "003", applied: &applied},
		fakeStep{version: "001", applied: &applied},
		fakeStep{version: "002", fail: true, applied: &applied},
	}

	results, err := runner.RunPending(steps)
	require.Error(t, err)

	assert.Equal(t, []string{"001"}, applied, "nothing after the failing version may run")
	assert.Equal(t, map[string]bool{"001": true, "002": false}, results)
	assert.True(t, runner.IsApplied("001"))
	assert.False(t, runner.IsApplied("002"))
	assert.False(t, runner.IsApplied("003"))
}

func TestRunPendingResumesAfterFailure(t *testing.T) {
	_, runner := newTestRunner(t)

	var applied []string
	failing := []Step{
		fakeStep{version: "001", applied: &applied},
		fakeStep{version: "002", fail: true, applied: &applied},
		fakeStep{version: "003", applied: &applied},
	}
	_, err := runner.RunPending(failing)
	require.Error(t, err)

	// Fixed steps: the second attempt picks up where the first stopped.
	fixed := []Step{
		fakeStep{version: "001", applied: &applied},
		fakeStep{version: "002", applied: &applied},
		fakeStep{version: "003", applied: &applied},
	}
	results, err := runner.RunPending(fixed)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"001": true, "002": true, "003": true}, results)

	// 001 ran once, in the first attempt.
	assert.Equal(t, []string{"001", "002", "003"}, applied)
}

func TestAppliedEmptyOnFreshStore(t *testing.T) {
	_, runner := newTestRunner(t)
	assert.Empty(t, runner.Applied())
	assert.False(t, runner.IsApplied("001"))
}

func TestStatusReportsLedger(t *testing.T) {
	store, runner := newTestRunner(t)

	var applied []string
	_, err := runner.RunPending([]Step{
		fakeStep{version: "001", applied: &applied},
		fakeStep{version: "002", applied: &applied},
	})
	require.NoError(t, err)

	status := runner.Status()
	assert.Equal(t, 2, status.AppliedCount)
	assert.Equal(t, []string{"001", "002"}, status.AppliedVersions)
	assert.Equal(t, store.Path(), status.StorePath)
	assert.True(t, status.StoreExists)
}

func TestAddBusinessIDBackfillsLegacyTable(t *testing.T) {
	store, runner := newTestRunner(t)

	// A pre-partitioning customers table: no business_id column.
	db := store.DB()
	require.NoError(t, db.Exec(`CREATE TABLE customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
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
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO customers (name) VALUES ('Rose Hall Resort'), ('Blue Mountain Cafe')`).Error)

	results, err := runner.RunPending(AllSteps())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"001": true, "002": true, "003": true}, results)

	var businesses []string
	require.NoError(t, db.Raw(`SELECT business_id FROM customers ORDER BY id`).Scan(&businesses).Error)
	require.Len(t, businesses, 2)
	for _, b := range businesses {
		assert.Equal(t, business.DefaultID, b)
	}

	// The tightened schema rejects null business rows outright.
	err = db.Exec(`INSERT INTO customers (business_id, name) VALUES (NULL, 'Nameless')`).Error
	assert.Error(t, err)

	// Per-business uniqueness holds after the rebuild.
	err = db.Exec(`INSERT INTO customers (business_id, name) VALUES (?, 'Rose Hall Resort')`, business.DefaultID).Error
	assert.Error(t, err)
	err = db.Exec(`INSERT INTO customers (business_id, name) VALUES ('private_chef', 'Rose Hall Resort')`).Error
	assert.NoError(t, err)
}

func TestStepsAreIdempotent(t *testing.T) {
	store, runner := newTestRunner(t)
	require.NoError(t, store.EnsureCreated())

	_, err := runner.RunPending(AllSteps())
	require.NoError(t, err)

	// Apply the raw steps again outside the ledger; each must be a no-op.
	for _, step := range AllSteps() {
		require.NoError(t, store.DB().Transaction(step.Apply), "step %s must re-run cleanly", step.Version())
	}
}

func TestRevertNotSupported(t *testing.T) {
	store, _ := newTestRunner(t)
	for _, step := range AllSteps() {
		err := step.Revert(store.DB())
		assert.ErrorIs(t, err, ErrRevertNotSupported)
	}
}
