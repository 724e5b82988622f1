package repository

import (
	"context"
	"taskboard/internal/model"
	"time"

	"gorm.io/gorm"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) List(ctx context.Context, page model.Page) ([]model.Column, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Column{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	columns := []model.Column{}
	err := r.db.WithContext(ctx).Order("id").Offset(page.Offset()).Limit(page.PerPage).Find(&columns).Error
	return columns, total, err
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	if column.ID == "" {
		column.ID = model.NewID()
	}
	return translateError(r.db.WithContext(ctx).Create(column).Error)
}

func (r *ColumnRepository) Update(ctx context.Context, id string, patch model.ColumnPatch) (*model.Column, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	values := model.Column{UpdatedAt: time.Now()}
	fields := []string{"updated_at"}
	if patch.Name != nil {
		values.Name = *patch.Name
		fields = append(fields, "name")
	}

	result := r.db.WithContext(ctx).Model(&model.Column{}).Where("id = ?", id).Select(fields).Updates(&values)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		return nil, translateError(err)
	}
	return &column, nil
}
