package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/handler"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTagsAndColumns() (*gin.Engine, *MockTagRepository, *MockColumnRepository) {
	r := newRouter()
	tagRepo := new(MockTagRepository)
	columnRepo := new(MockColumnRepository)

	tags := handler.NewTagHandler(tagRepo)
	r.GET("/tags", tags.List)
	r.POST("/tags", tags.Create)
	r.PUT("/tags/:tagId", tags.Update)

	columns := handler.NewColumnHandler(columnRepo)
	r.GET("/columns", columns.List)
	r.POST("/columns", columns.Create)
	r.PUT("/columns/:columnId", columns.Update)
	return r, tagRepo, columnRepo
}

func TestTagHandler_Create(t *testing.T) {
	router, tagRepo, _ := setupTagsAndColumns()
	tagRepo.On("Create", mock.Anything, mock.MatchedBy(func(tag *model.Tag) bool {
		return tag.Name == "bug" && tag.Color == "red"
	})).Return(nil)

	resp := postJSON(router, "/tags", handler.CreateTagRequest{Name: "bug", Color: "red"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	tagRepo.AssertExpectations(t)
}

func TestTagHandler_Create_MissingName(t *testing.T) {
	router, tagRepo, _ := setupTagsAndColumns()

	resp := postJSON(router, "/tags", handler.CreateTagRequest{Color: "red"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "name is required")
	tagRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTagHandler_Update_ColorOnly(t *testing.T) {
	router, tagRepo, _ := setupTagsAndColumns()
	id := model.NewID()
	tagRepo.On("Update", mock.Anything, id, model.TagPatch{Color: strPtr("blue")}).
		Return(&model.Tag{ID: id, Name: "bug", Color: "blue"}, nil)

	resp := sendJSON(router, "PUT", "/tags/"+id, `{"color":"blue"}`)

	assert.Equal(t, http.StatusOK, resp.Code)
	var tag model.Tag
	decode(t, resp.Body.Bytes(), &tag)
	assert.Equal(t, "bug", tag.Name)
}

func TestTagHandler_List_StoreError(t *testing.T) {
	router, tagRepo, _ := setupTagsAndColumns()
	tagRepo.On("List", mock.Anything, mock.Anything).Return([]model.Tag(nil), int64(0), errors.New("connection reset"))

	req, _ := http.NewRequest("GET", "/tags", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	var data errorData
	assert.False(t, decode(t, resp.Body.Bytes(), &data))
	assert.Equal(t, "DatabaseError", data.Name)
}

func TestColumnHandler_List(t *testing.T) {
	router, _, columnRepo := setupTagsAndColumns()
	columnRepo.On("List", mock.Anything, model.Page{Number: 1, PerPage: 20}).
		Return([]model.Column{{ID: model.NewID(), Name: "Todo"}, {ID: model.NewID(), Name: "Done"}}, int64(2), nil)

	req, _ := http.NewRequest("GET", "/columns", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	var columns []model.Column
	decode(t, resp.Body.Bytes(), &columns)
	assert.Len(t, columns, 2)
}

func TestColumnHandler_Create_Duplicate(t *testing.T) {
	router, _, columnRepo := setupTagsAndColumns()
	columnRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	resp := postJSON(router, "/columns", handler.CreateColumnRequest{Name: "Todo"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestColumnHandler_Update_UnknownID(t *testing.T) {
	router, _, columnRepo := setupTagsAndColumns()
	id := model.NewID()
	columnRepo.On("Update", mock.Anything, id, model.ColumnPatch{Name: strPtr("Done")}).Return(nil, repository.ErrNotFound)

	resp := sendJSON(router, "PUT", "/columns/"+id, `{"name":"Done"}`)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	columnRepo.AssertExpectations(t)
}
