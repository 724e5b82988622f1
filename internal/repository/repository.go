package repository

import (
	"context"

	"taskboard/internal/model"

	"gorm.io/gorm"
)

type UserRepositoryInterface interface {
	List(ctx context.Context, page model.Page) ([]model.User, int64, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
}

type TagRepositoryInterface interface {
	List(ctx context.Context, page model.Page) ([]model.Tag, int64, error)
	Create(ctx context.Context, tag *model.Tag) error
	Update(ctx context.Context, id string, patch model.TagPatch) (*model.Tag, error)
}

type ColumnRepositoryInterface interface {
	List(ctx context.Context, page model.Page) ([]model.Column, int64, error)
	Create(ctx context.Context, column *model.Column) error
	Update(ctx context.Context, id string, patch model.ColumnPatch) (*model.Column, error)
}

type TaskRepositoryInterface interface {
	List(ctx context.Context, filter model.TaskFilter, page model.Page) ([]model.TaskDetail, int64, error)
	GetByID(ctx context.Context, id string) (*model.TaskDetail, error)
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, id string, patch model.TaskPatch) (*model.TaskDetail, error)
	AddComment(ctx context.Context, id string, comment model.Comment) (*model.TaskDetail, error)
}

type CredentialRepositoryInterface interface {
	Create(ctx context.Context, cred *model.Credential) error
	FindByLogin(ctx context.Context, login string) (*model.Credential, error)
	FindByAccessToken(ctx context.Context, token string) (*model.Credential, error)
	UpdateAccessToken(ctx context.Context, id, token string) error
}

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Users       UserRepositoryInterface
	Tags        TagRepositoryInterface
	Columns     ColumnRepositoryInterface
	Tasks       TaskRepositoryInterface
	Credentials CredentialRepositoryInterface
}

var (
	_ UserRepositoryInterface       = (*UserRepository)(nil)
	_ TagRepositoryInterface        = (*TagRepository)(nil)
	_ ColumnRepositoryInterface     = (*ColumnRepository)(nil)
	_ TaskRepositoryInterface       = (*TaskRepository)(nil)
	_ CredentialRepositoryInterface = (*CredentialRepository)(nil)
)

// NewGormRepositories returns the postgres-backed repositories.
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:       NewUserRepository(db),
		Tags:        NewTagRepository(db),
		Columns:     NewColumnRepository(db),
		Tasks:       NewTaskRepository(db),
		Credentials: NewCredentialRepository(db),
	}
}
