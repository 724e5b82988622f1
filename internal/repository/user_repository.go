package repository

import (
	"context"
	"time"

	"taskboard/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, page model.Page) ([]model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := []model.User{}
	err := r.db.WithContext(ctx).
		Order("id").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = model.NewID()
	}
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	values := model.User{UpdatedAt: time.Now()}
	fields := []string{"updated_at"}
	if patch.Name != nil {
		values.Name = *patch.Name
		fields = append(fields, "name")
	}
	if patch.Description != nil {
		values.Description = *patch.Description
		fields = append(fields, "description")
	}
	if patch.ImageURL != nil {
		values.ImageURL = *patch.ImageURL
		fields = append(fields, "image_url")
	}

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Select(fields).
		Updates(&values)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}
