package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/response"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	repo repository.TaskRepositoryInterface
}

func NewTaskHandler(repo repository.TaskRepositoryInterface) *TaskHandler {
	return &TaskHandler{repo: repo}
}

// nullableTime records whether a date was sent and whether it was null.
// Both RFC 3339 timestamps and plain dates are accepted.
type nullableTime struct {
	set   bool
	value *time.Time
}

func (n *nullableTime) UnmarshalJSON(b []byte) error {
	n.set = true
	if bytes.Equal(b, []byte("null")) {
		n.value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.New("dueDate must be a date string")
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			n.value = &t
			return nil
		}
	}
	return fmt.Errorf("dueDate %q is not a valid date", s)
}

type taskListQuery struct {
	pageQuery
	Title    string `form:"title" json:"title"`
	UserID   string `form:"user" json:"user" binding:"omitempty,objectid"`
	ColumnID string `form:"column" json:"column" binding:"omitempty,objectid"`
	TagID    string `form:"tag" json:"tag" binding:"omitempty,objectid"`
}

type CreateTaskRequest struct {
	Title       string       `json:"title" binding:"required,max=100"`
	Description string       `json:"description" binding:"max=1000"`
	Link        string       `json:"link" binding:"omitempty,url"`
	TagIDs      []string     `json:"tags" binding:"omitempty,dive,required,objectid"`
	DueDate     nullableTime `json:"dueDate" swaggertype:"string" format:"date-time"`
	UserID      string       `json:"user" binding:"omitempty,objectid"`
	ColumnID    string       `json:"column" binding:"omitempty,objectid"`
}

// UpdateTaskRequest changes only the fields present. A null dueDate and empty
// user or column ids clear those fields.
type UpdateTaskRequest struct {
	Title       *string      `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string      `json:"description" binding:"omitempty,max=1000"`
	Link        *string      `json:"link" binding:"omitempty,url"`
	TagIDs      *[]string    `json:"tags" binding:"omitempty,dive,required,objectid"`
	DueDate     nullableTime `json:"dueDate" swaggertype:"string" format:"date-time"`
	UserID      *string      `json:"user" binding:"omitempty,objectid"`
	ColumnID    *string      `json:"column" binding:"omitempty,objectid"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required,max=500"`
}

// List godoc
// @Summary  List tasks
// @Tags     Tasks
// @Produce  json
// @Param    page    query int    false "Page number"
// @Param    perPage query int    false "Page size (max 100)"
// @Param    title   query string false "Case-insensitive title substring"
// @Param    user    query string false "User id"
// @Param    column  query string false "Column id"
// @Param    tag     query string false "Tag id"
// @Success  200 {object} response.Envelope{data=[]model.TaskDetail}
// @Failure  400 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	var q taskListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	filter := model.TaskFilter{
		Title:    q.Title,
		UserID:   q.UserID,
		ColumnID: q.ColumnID,
		TagID:    q.TagID,
	}
	tasks, total, err := h.repo.List(c.Request.Context(), filter, q.page())
	if err != nil {
		storeError(c, err)
		return
	}

	setTotal(c, total)
	response.OK(c, http.StatusOK, tasks)
}

// GetByID godoc
// @Summary  Get a task
// @Tags     Tasks
// @Produce  json
// @Param    taskId path string true "Task id"
// @Success  200 {object} response.Envelope{data=model.TaskDetail}
// @Failure  404 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /tasks/{taskId} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	task, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, task)
}

// Create godoc
// @Summary  Create a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    task body CreateTaskRequest true "Task"
// @Success  201 {object} response.Envelope{data=model.TaskDetail}
// @Failure  400 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		TagIDs:      req.TagIDs,
		DueDate:     req.DueDate.value,
		UserID:      req.UserID,
		ColumnID:    req.ColumnID,
	}
	if err := h.repo.Create(c.Request.Context(), task); err != nil {
		storeError(c, err)
		return
	}

	detail, err := h.repo.GetByID(c.Request.Context(), task.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, detail)
}

// Update godoc
// @Summary  Update a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    taskId path string            true "Task id"
// @Param    task   body UpdateTaskRequest true "Fields to change"
// @Success  200 {object} response.Envelope{data=model.TaskDetail}
// @Failure  404 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /tasks/{taskId} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := model.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		TagIDs:      req.TagIDs,
		UserID:      req.UserID,
		ColumnID:    req.ColumnID,
	}
	if req.DueDate.set {
		patch.DueDate = req.DueDate.value
		patch.ClearDueDate = req.DueDate.value == nil
	}
	if patch.Empty() {
		noFieldsError(c)
		return
	}

	task, err := h.repo.Update(c.Request.Context(), id, patch)
	if err != nil {
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, task)
}

// AddComment godoc
// @Summary  Comment on a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    taskId  path string            true "Task id"
// @Param    comment body AddCommentRequest true "Comment"
// @Success  201 {object} response.Envelope{data=model.TaskDetail}
// @Failure  404 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /tasks/{taskId}/comments [post]
func (h *TaskHandler) AddComment(c *gin.Context) {
	id, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment := model.Comment{
		ID:        model.NewID(),
		Text:      req.Text,
		Author:    c.GetString(middleware.LoginKey),
		CreatedAt: time.Now().UTC(),
	}
	task, err := h.repo.AddComment(c.Request.Context(), id, comment)
	if err != nil {
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, task)
}
