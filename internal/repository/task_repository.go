package repository

import (
	"context"
	"regexp"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List retrieves one page of tasks matching the filter with their references resolved
func (r *TaskRepository) List(ctx context.Context, filter model.TaskFilter, page model.Page) ([]model.TaskDetail, int64, error) {
	scope := taskFilterScope(filter)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Scopes(scope).
		Order("id").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&tasks)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	details, err := r.resolve(ctx, tasks)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// GetByID retrieves a task by its ID with its references resolved
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.TaskDetail, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}

	details, err := r.resolve(ctx, []model.Task{task})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = model.NewID()
	}
	if task.TagIDs == nil {
		task.TagIDs = []string{}
	}
	if task.Comments == nil {
		task.Comments = []model.Comment{}
	}
	return translateError(r.db.WithContext(ctx).Create(task).Error)
}

// Update writes the fields present in the patch and returns the resolved task
func (r *TaskRepository) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.TaskDetail, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	values := model.Task{UpdatedAt: time.Now()}
	fields := []string{"updated_at"}
	if patch.Title != nil {
		values.Title = *patch.Title
		fields = append(fields, "title")
	}
	if patch.Description != nil {
		values.Description = *patch.Description
		fields = append(fields, "description")
	}
	if patch.Link != nil {
		values.Link = *patch.Link
		fields = append(fields, "link")
	}
	if patch.TagIDs != nil {
		values.TagIDs = *patch.TagIDs
		if values.TagIDs == nil {
			values.TagIDs = []string{}
		}
		fields = append(fields, "tags")
	}
	if patch.ClearDueDate {
		fields = append(fields, "due_date")
	} else if patch.DueDate != nil {
		values.DueDate = patch.DueDate
		fields = append(fields, "due_date")
	}
	if patch.UserID != nil {
		values.UserID = *patch.UserID
		fields = append(fields, "user_id")
	}
	if patch.ColumnID != nil {
		values.ColumnID = *patch.ColumnID
		fields = append(fields, "column_id")
	}

	result := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Select(fields).Updates(&values)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// AddComment appends a comment to the task's comment list
func (r *TaskRepository) AddComment(ctx context.Context, id string, comment model.Comment) (*model.TaskDetail, error) {
	if !model.IsValidID(id) {
		return nil, ErrInvalidID
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, "id = ?", id).Error; err != nil {
			return translateError(err)
		}

		task.Comments = append(task.Comments, comment)
		return tx.Model(&model.Task{}).
			Where("id = ?", id).
			Select("comments", "updated_at").
			Updates(&model.Task{Comments: task.Comments, UpdatedAt: time.Now()}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func taskFilterScope(filter model.TaskFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Title != "" {
			db = db.Where("title ~* ?", regexp.QuoteMeta(filter.Title))
		}
		if filter.UserID != "" {
			db = db.Where("user_id = ?", filter.UserID)
		}
		if filter.ColumnID != "" {
			db = db.Where("column_id = ?", filter.ColumnID)
		}
		if filter.TagID != "" {
			db = db.Where("tags @> ?", `["`+filter.TagID+`"]`)
		}
		return db
	}
}

// resolve looks up the users, columns and tags referenced by the tasks
func (r *TaskRepository) resolve(ctx context.Context, tasks []model.Task) ([]model.TaskDetail, error) {
	details := make([]model.TaskDetail, 0, len(tasks))
	if len(tasks) == 0 {
		return details, nil
	}

	var userIDs, columnIDs, tagIDs []string
	for _, t := range tasks {
		if t.UserID != "" {
			userIDs = append(userIDs, t.UserID)
		}
		if t.ColumnID != "" {
			columnIDs = append(columnIDs, t.ColumnID)
		}
		tagIDs = append(tagIDs, t.TagIDs...)
	}

	users := map[string]model.User{}
	if len(userIDs) > 0 {
		var found []model.User
		if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&found).Error; err != nil {
			return nil, err
		}
		for _, u := range found {
			users[u.ID] = u
		}
	}

	columns := map[string]model.Column{}
	if len(columnIDs) > 0 {
		var found []model.Column
		if err := r.db.WithContext(ctx).Where("id IN ?", columnIDs).Find(&found).Error; err != nil {
			return nil, err
		}
		for _, c := range found {
			columns[c.ID] = c
		}
	}

	tags := map[string]model.Tag{}
	if len(tagIDs) > 0 {
		var found []model.Tag
		if err := r.db.WithContext(ctx).Where("id IN ?", tagIDs).Find(&found).Error; err != nil {
			return nil, err
		}
		for _, t := range found {
			tags[t.ID] = t
		}
	}

	for _, t := range tasks {
		details = append(details, t.Detail(users, columns, tags))
	}
	return details, nil
}
