package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bornfidis/harvesthub/internal/model"
	"github.com/bornfidis/harvesthub/pkg/database"
)

// TemplateRepository manages message templates. Templates are shared across
// businesses, so unlike the generic repository there is no business scope;
// names are globally unique.
type TemplateRepository struct {
	store *database.Store
	log   *zap.Logger
}

// NewTemplateRepository constructs the template repository.
func NewTemplateRepository(store *database.Store, log *zap.Logger) *TemplateRepository {
	return &TemplateRepository{store: store, log: log}
}

const templateEntity = "message_template"

// Create inserts a template. A duplicate name is rejected.
func (r *TemplateRepository) Create(ctx context.Context, t *model.MessageTemplate) error {
	const op = "create"

	if t.Name == "" || t.Body == "" {
		return &ValidationError{Op: op, Entity: templateEntity, Reason: "name and body are required"}
	}

	err := r.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.MessageTemplate{}).Where("name = ?", t.Name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &ValidationError{
				Op:     op,
				Entity: templateEntity,
				Reason: fmt.Sprintf("template %q already exists", t.Name),
			}
		}
		return tx.Create(t).Error
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		r.log.Error("store operation failed", zap.String("operation", op), zap.String("entity", templateEntity), zap.Error(err))
		return translate(op, templateEntity, err)
	}
	return nil
}

// Get returns the template with the given id, or ErrNotFound.
func (r *TemplateRepository) Get(ctx context.Context, id uint) (*model.MessageTemplate, error) {
	var t model.MessageTemplate
	if err := r.store.DB().WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate("get", templateEntity, err)
	}
	return &t, nil
}

// GetByName returns the template with the given name, or ErrNotFound.
func (r *TemplateRepository) GetByName(ctx context.Context, name string) (*model.MessageTemplate, error) {
	var t model.MessageTemplate
	if err := r.store.DB().WithContext(ctx).Where("name = ?", name).First(&t).Error; err != nil {
		return nil, translate("get", templateEntity, err)
	}
	return &t, nil
}

// List returns all templates ordered by name.
func (r *TemplateRepository) List(ctx context.Context) ([]model.MessageTemplate, error) {
	var out []model.MessageTemplate
	if err := r.store.DB().WithContext(ctx).Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, translate("list", templateEntity, err)
	}
	return out, nil
}

// Update applies a partial patch to a template.
func (r *TemplateRepository) Update(ctx context.Context, id uint, patch model.MessageTemplatePatch) (*model.MessageTemplate, error) {
	const op = "update"

	var t model.MessageTemplate
	err := r.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			return err
		}
		changes := patch.Changes()
		changes["updated_at"] = time.Now()
		if err := tx.Model(&t).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&t, id).Error
	})
	if err != nil {
		return nil, translate(op, templateEntity, err)
	}
	return &t, nil
}

// Delete hard-deletes a template; a missing id returns false.
func (r *TemplateRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.store.DB().WithContext(ctx).Delete(&model.MessageTemplate{}, id)
	if res.Error != nil {
		return false, translate("delete", templateEntity, res.Error)
	}
	return res.RowsAffected > 0, nil
}
