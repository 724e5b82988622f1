package handler

import (
	"net/http"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/response"

	"github.com/gin-gonic/gin"
)

type ColumnHandler struct {
	repo repository.ColumnRepositoryInterface
}

func NewColumnHandler(repo repository.ColumnRepositoryInterface) *ColumnHandler {
	return &ColumnHandler{repo: repo}
}

type CreateColumnRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateColumnRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1"`
}

// List godoc
// @Summary  List columns
// @Tags     Columns
// @Produce  json
// @Param    page    query int false "Page number"
// @Param    perPage query int false "Page size (max 100)"
// @Success  200 {object} response.Envelope{data=[]model.Column}
// @Security BearerAuth
// @Router   /columns [get]
func (h *ColumnHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	columns, total, err := h.repo.List(c.Request.Context(), q.page())
	if err != nil {
		storeError(c, err)
		return
	}

	setTotal(c, total)
	response.OK(c, http.StatusOK, columns)
}

// Create godoc
// @Summary  Create a column
// @Tags     Columns
// @Accept   json
// @Produce  json
// @Param    column body CreateColumnRequest true "Column"
// @Success  201 {object} response.Envelope{data=model.Column}
// @Failure  400 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /columns [post]
func (h *ColumnHandler) Create(c *gin.Context) {
	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	column := &model.Column{Name: req.Name}
	if err := h.repo.Create(c.Request.Context(), column); err != nil {
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, column)
}

// Update godoc
// @Summary  Rename a column
// @Tags     Columns
// @Accept   json
// @Produce  json
// @Param    columnId path string              true "Column id"
// @Param    column   body UpdateColumnRequest true "Fields to change"
// @Success  200 {object} response.Envelope{data=model.Column}
// @Failure  404 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /columns/{columnId} [put]
func (h *ColumnHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "columnId")
	if !ok {
		return
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := model.ColumnPatch{Name: req.Name}
	if patch.Empty() {
		noFieldsError(c)
		return
	}

	column, err := h.repo.Update(c.Request.Context(), id, patch)
	if err != nil {
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, column)
}
