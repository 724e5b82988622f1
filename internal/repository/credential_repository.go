package repository

import (
	"context"
	"time"

	"taskboard/internal/model"

	"gorm.io/gorm"
)

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Create(ctx context.Context, cred *model.Credential) error {
	if cred.ID == "" {
		cred.ID = model.NewID()
	}
	return translateError(r.db.WithContext(ctx).Create(cred).Error)
}

func (r *CredentialRepository) FindByLogin(ctx context.Context, login string) (*model.Credential, error) {
	var cred model.Credential
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&cred).Error; err != nil {
		return nil, translateError(err)
	}
	return &cred, nil
}

func (r *CredentialRepository) FindByAccessToken(ctx context.Context, token string) (*model.Credential, error) {
	var cred model.Credential
	if err := r.db.WithContext(ctx).Where("access_token = ?", token).First(&cred).Error; err != nil {
		return nil, translateError(err)
	}
	return &cred, nil
}

func (r *CredentialRepository) UpdateAccessToken(ctx context.Context, id, token string) error {
	result := r.db.WithContext(ctx).Model(&model.Credential{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_token": token,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
