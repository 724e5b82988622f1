package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// List returns one page of tags in creation order along with the total count
func (r *TagRepository) List(ctx context.Context, page model.Page) ([]model.Tag, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Tag{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tags := []model.Tag{}
	result := r.db.WithContext(ctx).Order("id").Offset(page.Offset()).Limit(page.PerPage).Find(&tags)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return tags, total, nil
}

// Create adds a new tag to the database
func (r *TagRepository) Create(ctx context.Context, tag *model.Tag) error {
	if tag.ID == "" {
		tag.ID = model.NewID()
	}
	return translateError(r.db.WithContext(ctx).Create(tag).Error)
}

// Update changes the name and/or color of a tag and returns the stored result
func (r *TagRepository) Update(ctx context.Context, id string, patch model.TagPatch) (*model.Tag, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	values := model.Tag{UpdatedAt: time.Now()}
	fields := []string{"updated_at"}
	if patch.Name != nil {
		values.Name = *patch.Name
		fields = append(fields, "name")
	}
	if patch.Color != nil {
		values.Color = *patch.Color
		fields = append(fields, "color")
	}

	result := r.db.WithContext(ctx).Model(&model.Tag{}).Where("id = ?", id).Select(fields).Updates(&values)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &tag, nil
}
