package handler

import (
	"net/http"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/response"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	repo repository.TagRepositoryInterface
}

func NewTagHandler(repo repository.TagRepositoryInterface) *TagHandler {
	return &TagHandler{repo: repo}
}

type CreateTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type UpdateTagRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Color *string `json:"color"`
}

// List godoc
// @Summary  List tags
// @Tags     Tags
// @Produce  json
// @Param    page    query int false "Page number"
// @Param    perPage query int false "Page size (max 100)"
// @Success  200 {object} response.Envelope{data=[]model.Tag}
// @Security BearerAuth
// @Router   /tags [get]
func (h *TagHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	tags, total, err := h.repo.List(c.Request.Context(), q.page())
	if err != nil {
		storeError(c, err)
		return
	}

	setTotal(c, total)
	response.OK(c, http.StatusOK, tags)
}

// Create godoc
// @Summary  Create a tag
// @Tags     Tags
// @Accept   json
// @Produce  json
// @Param    tag body CreateTagRequest true "Tag"
// @Success  201 {object} response.Envelope{data=model.Tag}
// @Failure  400 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tag := &model.Tag{Name: req.Name, Color: req.Color}
	if err := h.repo.Create(c.Request.Context(), tag); err != nil {
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, tag)
}

// Update godoc
// @Summary  Update a tag
// @Tags     Tags
// @Accept   json
// @Produce  json
// @Param    tagId path string           true "Tag id"
// @Param    tag   body UpdateTagRequest true "Fields to change"
// @Success  200 {object} response.Envelope{data=model.Tag}
// @Failure  404 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /tags/{tagId} [put]
func (h *TagHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "tagId")
	if !ok {
		return
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := model.TagPatch{Name: req.Name, Color: req.Color}
	if patch.Empty() {
		noFieldsError(c)
		return
	}

	tag, err := h.repo.Update(c.Request.Context(), id, patch)
	if err != nil {
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, tag)
}
