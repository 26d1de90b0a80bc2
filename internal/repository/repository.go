// Package repository implements generic business-scoped access to the
// entity tables. Every read and write is partitioned by business identifier
// unless the caller asks for all businesses explicitly.
package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bornfidis/harvesthub/internal/business"
	"github.com/bornfidis/harvesthub/internal/model"
	"github.com/bornfidis/harvesthub/pkg/database"
)

// Scope selects which businesses a query covers. The zero value is invalid:
// callers must pick one business or opt into all of them.
type Scope struct {
	businessID string
	all        bool
}

// ForBusiness scopes a query to one business.
func ForBusiness(id string) Scope {
	return Scope{businessID: id}
}

// AcrossBusinesses scopes a query to every business. This is the explicit
// opt-out from partitioning.
func AcrossBusinesses() Scope {
	return Scope{all: true}
}

func (s Scope) validate(op, entity string) error {
	if !s.all && s.businessID == "" {
		return &ValidationError{Op: op, Entity: entity, Reason: "business scope required"}
	}
	return nil
}

func (s Scope) apply(tx *gorm.DB) *gorm.DB {
	if s.all {
		return tx
	}
	return tx.Where("business_id = ?", s.businessID)
}

// Config describes one entity type to the repository.
type Config struct {
	// Entity names the type in errors, logs and metrics ("customer").
	Entity string
	// NaturalKey is the column enforced unique per business; empty disables
	// the pre-insert duplicate check.
	NaturalKey string
	// DefaultOrder is the deterministic list ordering. A secondary id key
	// keeps it stable for equal values.
	DefaultOrder string
}

// Repository provides create/read/update/delete over one entity table,
// always partitioned by business identifier.
type Repository[T any, PT interface {
	model.BusinessEntity
	*T
}] struct {
	store *database.Store
	log   *zap.Logger
	cfg   Config
}

// New constructs a repository for one entity type over an opened store.
func New[T any, PT interface {
	model.BusinessEntity
	*T
}](store *database.Store, log *zap.Logger, cfg Config) *Repository[T, PT] {
	if cfg.DefaultOrder == "" {
		cfg.DefaultOrder = "id ASC"
	}
	return &Repository[T, PT]{store: store, log: log, cfg: cfg}
}

// fail records a store error before surfacing it, then translates it onto
// the repository taxonomy.
func (r *Repository[T, PT]) fail(op string, err error) error {
	translated := translate(op, r.cfg.Entity, err)
	if _, ok := translated.(*ValidationError); !ok && translated != ErrNotFound {
		r.log.Error("store operation failed",
			zap.String("operation", op),
			zap.String("entity", r.cfg.Entity),
			zap.Error(err))
	}
	return translated
}

// Create inserts a new entity under the given business in one transaction.
// The business identifier is required and must be registered; a duplicate
// natural key within the same business is rejected.
func (r *Repository[T, PT]) Create(ctx context.Context, businessID string, e PT) error {
	const op = "create"

	if businessID == "" {
		return &ValidationError{Op: op, Entity: r.cfg.Entity, Reason: "business id is required"}
	}
	if !business.IsKnown(businessID) {
		return &ValidationError{Op: op, Entity: r.cfg.Entity, Reason: fmt.Sprintf("unknown business %q", businessID)}
	}
	e.AssignBusiness(businessID)

	err := r.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.cfg.NaturalKey != "" {
			nk, ok := any(e).(model.NaturalKeyed)
			if ok {
				var n int64
				err := tx.Model(new(T)).
					Where(fmt.Sprintf("business_id = ? AND %s = ?", r.cfg.NaturalKey), businessID, nk.NaturalKey()).
					Count(&n).Error
				if err != nil {
					return err
				}
				if n > 0 {
					return &ValidationError{
						Op:     op,
						Entity: r.cfg.Entity,
						Reason: fmt.Sprintf("%s %q already exists for business %q", r.cfg.NaturalKey, nk.NaturalKey(), businessID),
					}
				}
			}
		}
		return tx.Create(e).Error
	})
	if err != nil {
		if verr, ok := err.(*ValidationError); ok {
			return verr
		}
		return r.fail(op, err)
	}
	return nil
}

// Get returns the entity with the given id, or ErrNotFound.
func (r *Repository[T, PT]) Get(ctx context.Context, id uint) (PT, error) {
	var e T
	err := r.store.DB().WithContext(ctx).First(&e, id).Error
	if err != nil {
		return nil, r.fail("get", err)
	}
	return PT(&e), nil
}

// List returns all entities in scope in the repository's deterministic
// order.
func (r *Repository[T, PT]) List(ctx context.Context, scope Scope) ([]T, error) {
	const op = "list"
	if err := scope.validate(op, r.cfg.Entity); err != nil {
		return nil, err
	}

	var out []T
	tx := scope.apply(r.store.DB().WithContext(ctx).Model(new(T)))
	if err := tx.Order(r.cfg.DefaultOrder).Find(&out).Error; err != nil {
		return nil, r.fail(op, err)
	}
	return out, nil
}

// Update applies a partial patch to the entity with the given id, bumping
// its updated timestamp, in one transaction. Returns ErrNotFound if the id
// does not exist.
func (r *Repository[T, PT]) Update(ctx context.Context, id uint, patch model.Patch) (PT, error) {
	const op = "update"

	var e T
	err := r.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, id).Error; err != nil {
			return err
		}
		changes := patch.Changes()
		changes["updated_at"] = time.Now()
		if err := tx.Model(PT(&e)).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&e, id).Error
	})
	if err != nil {
		return nil, r.fail(op, err)
	}
	return PT(&e), nil
}

// Delete hard-deletes the entity with the given id. A missing id is not an
// error: it returns false.
func (r *Repository[T, PT]) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.store.DB().WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return false, r.fail("delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Count returns the number of entities in scope.
func (r *Repository[T, PT]) Count(ctx context.Context, scope Scope) (int64, error) {
	const op = "count"
	if err := scope.validate(op, r.cfg.Entity); err != nil {
		return 0, err
	}

	var n int64
	tx := scope.apply(r.store.DB().WithContext(ctx).Model(new(T)))
	if err := tx.Count(&n).Error; err != nil {
		return 0, r.fail(op, err)
	}
	return n, nil
}
