package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bornfidis/harvesthub/internal/business"
	"github.com/bornfidis/harvesthub/internal/model"
	"github.com/bornfidis/harvesthub/pkg/config"
	"github.com/bornfidis/harvesthub/pkg/database"
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
	require.NoError(t, store.EnsureCreated())
	t.Cleanup(func() { store.Close() })
	return store
}

func newCustomerRepo(t *testing.T) *Repository[model.Customer, *model.Customer] {
	t.Helper()
	return New[model.Customer](newTestStore(t), zap.NewNop(), Config{
		Entity:       "customer",
		NaturalKey:   "name",
		DefaultOrder: "name ASC, id ASC",
	})
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	repo := newCustomerRepo(t)
	ctx := context.Background()

	c := model.Customer{
		Name:          "Rose Hall Resort",
		ContactPerson: "Marcia",
		Phone:         "876-555-0101",
		Email:         "kitchen@rosehall.example",
	}
	require.NoError(t, repo.Create(ctx, business.DefaultID, &c))
	require.NotZero(t, c.ID)
	assert.Equal(t, business.DefaultID, c.BusinessID)

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, c.Phone, got.Phone)
	assert.Equal(t, business.DefaultID, got.BusinessID)
}

func TestCreateRequiresKnownBusiness(t *testing.T) {
	repo := newCustomerRepo(t)
	ctx := context.Background()

	err := repo.Create(ctx, "", &model.Customer{Name: "No Business"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	err = repo.Create(ctx, "unregistered_co", &model.Customer{Name: "Stranger"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "unregistered_co")
}

func TestCreateRejectsDuplicateNameWithinBusiness(t *testing.T) {
	repo := newCustomerRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, business.DefaultID, &model.Customer{Name: "Blue Mountain Cafe"}))

	err := repo.Create(ctx, business.DefaultID, &model.Customer{Name: "Blue Mountain Cafe"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// The same name under another business is a different customer.
	require.NoError(t, repo.Create(ctx, "private_chef", &model.Customer{Name: "Blue Mountain Cafe"}))
}

func TestListIsPartitionedByBusiness(t *testing.T) {
	repo := newCustomerRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, business.DefaultID, &model.Customer{Name: "Alpha"}))
	require.NoError(t, repo.Create(ctx, business.DefaultID, &model.Customer{Name: "Beta"}))
	require.NoError(t, repo.Create(ctx, "private_chef", &model.Customer{Name: "Gamma"}))

	mine, err := repo.List(ctx, ForBusiness(business.DefaultID))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Alpha", mine[0].Name)
	assert.Equal(t, "Beta", mine[1].Name)

	theirs, err := repo.List(ctx, ForBusiness("private_chef"))
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "Gamma", theirs[0].Name)

	everyone, err := repo.List(ctx, AcrossBusinesses())
	require.NoError(t, err)
	assert.Len(t, everyone, 3)
}

func TestListRejectsZeroScope(t *testing.T) {
	repo := newCustomerRepo(t)

	_, err := repo.List(context.Background(), Scope{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "business scope required")

	_, err = repo.Count(context.Background(), Scope{})
	require.ErrorAs(t, err, &verr)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	repo := newCustomerRepo(t)

	_, err := repo.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAppliesPatchAndBumpsTimestamp(t *testing.T) {
	repo := newCustomerRepo(t)
	ctx := context.Background()

	c := model.Customer{Name: "Harbour View Hotel", Phone: "876-555-0199"}
	require.NoError(t, repo.Create(ctx, business.DefaultID, &c))

	created, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	phone := "876-555-0200"
	score := 5
	updated, err := repo.Update(ctx, c.ID, model.CustomerPatch{Phone: &phone, SatisfactionScore: &score})
	require.NoError(t, err)

	assert.Equal(t, "876-555-0200", updated.Phone)
	assert.Equal(t, 5, updated.SatisfactionScore)
	assert.Equal(t, "Harbour View Hotel", updated.Name, "unpatched fields are untouched")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "update must bump the timestamp")
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	repo := newCustomerRepo(t)

	name := "Ghost"
	_, err := repo.Update(context.Background(), 424242, model.CustomerPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReturnsFalseOnMiss(t *testing.T) {
	repo := newCustomerRepo(t)
	ctx := context.Background()

	c := model.Customer{Name: "Short Lived"}
	require.NoError(t, repo.Create(ctx, business.DefaultID, &c))

	deleted, err := repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "a second delete of the same id is a miss, not an error")

	_, err = repo.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountPerBusiness(t *testing.T) {
	repo := newCustomerRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, business.DefaultID, &model.Customer{Name: "One"}))
	require.NoError(t, repo.Create(ctx, business.DefaultID, &model.Customer{Name: "Two"}))
	require.NoError(t, repo.Create(ctx, "bornfidis_provisions", &model.Customer{Name: "Three"}))

	n, err := repo.Count(ctx, ForBusiness(business.DefaultID))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.Count(ctx, AcrossBusinesses())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestTemplateRepositoryGlobalUniqueness(t *testing.T) {
	store := newTestStore(t)
	repo := NewTemplateRepository(store, zap.NewNop())
	ctx := context.Background()

	tmpl := model.MessageTemplate{
		Name: "order_confirmation",
		Type: model.TemplateTypeWhatsApp,
		Body: "Your order {{order_id}} is confirmed.",
	}
	require.NoError(t, repo.Create(ctx, &tmpl))

	dup := model.MessageTemplate{Name: "order_confirmation", Type: model.TemplateTypeEmail, Body: "x"}
	err := repo.Create(ctx, &dup)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	got, err := repo.GetByName(ctx, "order_confirmation")
	require.NoError(t, err)
	assert.Equal(t, tmpl.ID, got.ID)

	_, err = repo.GetByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateRepositoryRequiresNameAndBody(t *testing.T) {
	repo := NewTemplateRepository(newTestStore(t), zap.NewNop())

	err := repo.Create(context.Background(), &model.MessageTemplate{Type: model.TemplateTypeEmail})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}
