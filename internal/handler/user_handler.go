package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/response"
	"taskboard/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	repo      repository.UserRepositoryInterface
	images    storage.ImageStore
	publicURL string
	maxUpload int64
}

func NewUserHandler(repo repository.UserRepositoryInterface, images storage.ImageStore, publicURL string, maxUploadMB int) *UserHandler {
	return &UserHandler{
		repo:      repo,
		images:    images,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxUpload: int64(maxUploadMB) << 20,
	}
}

type CreateUserRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=13"`
	Description string `json:"description"`
	ImageURL    string `json:"imageURL" binding:"omitempty,url"`
}

type UpdateUserRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=13"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageURL" binding:"omitempty,url"`
}

// List godoc
// @Summary  List users
// @Tags     Users
// @Produce  json
// @Param    page     query int false "Page number"
// @Param    perPage  query int false "Page size (max 100)"
// @Success  200 {object} response.Envelope{data=[]model.User}
// @Security BearerAuth
// @Router   /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	users, total, err := h.repo.List(c.Request.Context(), q.page())
	if err != nil {
		storeError(c, err)
		return
	}

	setTotal(c, total)
	response.OK(c, http.StatusOK, users)
}

// GetByID godoc
// @Summary  Get a user
// @Tags     Users
// @Produce  json
// @Param    userId path string true "User id"
// @Success  200 {object} response.Envelope{data=model.User}
// @Failure  404 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /users/{userId} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, user)
}

// Create godoc
// @Summary  Create a user
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    user body CreateUserRequest true "User"
// @Success  201 {object} response.Envelope{data=model.User}
// @Failure  400 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user := &model.User{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, user)
}

// Update godoc
// @Summary  Update a user
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    userId path string            true "User id"
// @Param    user   body UpdateUserRequest true "Fields to change"
// @Success  200 {object} response.Envelope{data=model.User}
// @Failure  404 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /users/{userId} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := model.UserPatch{Name: req.Name, Description: req.Description, ImageURL: req.ImageURL}
	if patch.Empty() {
		noFieldsError(c)
		return
	}

	user, err := h.repo.Update(c.Request.Context(), id, patch)
	if err != nil {
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, user)
}

// UploadImage godoc
// @Summary  Upload a user's image
// @Tags     Users
// @Accept   multipart/form-data
// @Produce  json
// @Param    userId path     string true "User id"
// @Param    image  formData file   true "Image file"
// @Success  200 {object} response.Envelope{data=model.User}
// @Failure  400 {object} response.Envelope{data=response.ErrorBody}
// @Security BearerAuth
// @Router   /users/{userId}/image [post]
func (h *UserHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if maxErr := new(http.MaxBytesError); errors.As(err, &maxErr) {
			response.Error(c, http.StatusBadRequest, "ValidationError", "image is too large")
			return
		}
		response.Error(c, http.StatusBadRequest, "ValidationError", "image file is required")
		return
	}
	if fileHeader.Size > h.maxUpload {
		response.Error(c, http.StatusBadRequest, "ValidationError", "image is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ValidationError", "image could not be read")
		return
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil || !strings.HasPrefix(mtype.String(), "image/") {
		response.Error(c, http.StatusBadRequest, "ValidationError", "file is not an image")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		response.Error(c, http.StatusBadRequest, "ValidationError", "image could not be read")
		return
	}

	name := uuid.NewString() + mtype.Extension()
	if err := h.images.Save(c.Request.Context(), name, file); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusBadRequest, "StorageError", "image could not be stored")
		return
	}

	imageURL := h.publicURL + "/images/" + name
	user, err := h.repo.Update(c.Request.Context(), id, model.UserPatch{ImageURL: &imageURL})
	if err != nil {
		// Nothing references the blob yet.
		if rmErr := h.images.Remove(c.Request.Context(), name); rmErr != nil {
			_ = c.Error(rmErr)
		}
		storeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, user)
}
