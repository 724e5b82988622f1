package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"taskboard/internal/response"
	"taskboard/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// sniffLen is how much of an image is read to detect its content type.
const sniffLen = 3072

type ImageHandler struct {
	images storage.ImageStore
}

func NewImageHandler(images storage.ImageStore) *ImageHandler {
	return &ImageHandler{images: images}
}

// Get streams a stored image.
func (h *ImageHandler) Get(c *gin.Context) {
	rc, err := h.images.Open(c.Request.Context(), c.Param("name"))
	switch {
	case errors.Is(err, storage.ErrInvalidName):
		response.Error(c, http.StatusBadRequest, "ValidationError", "Invalid image name")
		return
	case errors.Is(err, storage.ErrImageNotFound):
		response.Error(c, http.StatusNotFound, "NotFound", "Image not found")
		return
	case err != nil:
		_ = c.Error(err)
		response.Error(c, http.StatusBadRequest, "StorageError", "Image could not be read")
		return
	}
	defer rc.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = c.Error(err)
		response.Error(c, http.StatusBadRequest, "StorageError", "Image could not be read")
		return
	}
	head = head[:n]

	body := io.MultiReader(bytes.NewReader(head), rc)
	c.DataFromReader(http.StatusOK, -1, mimetype.Detect(head).String(), body, nil)
}
