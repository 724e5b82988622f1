package handler_test

import (
	"context"
	"encoding/json"
	"testing"

	"taskboard/internal/handler"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(ctx context.Context, page model.Page) ([]model.User, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	args := m.Called(ctx, id, patch)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) List(ctx context.Context, page model.Page) ([]model.Tag, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]model.Tag), args.Get(1).(int64), args.Error(2)
}

func (m *MockTagRepository) Create(ctx context.Context, tag *model.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Update(ctx context.Context, id string, patch model.TagPatch) (*model.Tag, error) {
	args := m.Called(ctx, id, patch)
	tag := args.Get(0)
	if tag == nil {
		return nil, args.Error(1)
	}
	return tag.(*model.Tag), args.Error(1)
}

type MockColumnRepository struct {
	mock.Mock
}

func (m *MockColumnRepository) List(ctx context.Context, page model.Page) ([]model.Column, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]model.Column), args.Get(1).(int64), args.Error(2)
}

func (m *MockColumnRepository) Create(ctx context.Context, column *model.Column) error {
	args := m.Called(ctx, column)
	return args.Error(0)
}

func (m *MockColumnRepository) Update(ctx context.Context, id string, patch model.ColumnPatch) (*model.Column, error) {
	args := m.Called(ctx, id, patch)
	column := args.Get(0)
	if column == nil {
		return nil, args.Error(1)
	}
	return column.(*model.Column), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) List(ctx context.Context, filter model.TaskFilter, page model.Page) ([]model.TaskDetail, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]model.TaskDetail), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id string) (*model.TaskDetail, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.TaskDetail), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.TaskDetail, error) {
	args := m.Called(ctx, id, patch)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.TaskDetail), args.Error(1)
}

func (m *MockTaskRepository) AddComment(ctx context.Context, id string, comment model.Comment) (*model.TaskDetail, error) {
	args := m.Called(ctx, id, comment)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.TaskDetail), args.Error(1)
}

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Create(ctx context.Context, cred *model.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) FindByLogin(ctx context.Context, login string) (*model.Credential, error) {
	args := m.Called(ctx, login)
	cred := args.Get(0)
	if cred == nil {
		return nil, args.Error(1)
	}
	return cred.(*model.Credential), args.Error(1)
}

func (m *MockCredentialRepository) FindByAccessToken(ctx context.Context, token string) (*model.Credential, error) {
	args := m.Called(ctx, token)
	cred := args.Get(0)
	if cred == nil {
		return nil, args.Error(1)
	}
	return cred.(*model.Credential), args.Error(1)
}

func (m *MockCredentialRepository) UpdateAccessToken(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler.RegisterValidators()
	return gin.New()
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
}

type errorData struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// decode unwraps the response envelope into data.
func decode(t *testing.T, body []byte, data interface{}) bool {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Success
}

func strPtr(s string) *string { return &s }
