package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"taskboard/internal/handler"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// setupUsers serves the user and image routes over a local image store in a
// temp dir, returned as the last value. Uploads are capped at 1 MiB.
func setupUsers(t *testing.T) (*gin.Engine, *MockUserRepository, string) {
	r := newRouter()
	repo := new(MockUserRepository)
	dir := t.TempDir()
	images, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	users := handler.NewUserHandler(repo, images, "http://api.test/", 1)
	r.GET("/users", users.List)
	r.GET("/users/:userId", users.GetByID)
	r.POST("/users", users.Create)
	r.PUT("/users/:userId", users.Update)
	r.POST("/users/:userId/image", users.UploadImage)
	r.GET("/images/:name", handler.NewImageHandler(images).Get)
	return r, repo, dir
}

func TestUserHandler_List(t *testing.T) {
	// Arrange
	router, repo, _ := setupUsers(t)
	repo.On("List", mock.Anything, model.Page{Number: 2, PerPage: 5}).
		Return([]model.User{{ID: model.NewID(), Name: "anna"}}, int64(6), nil)

	// Act
	req, _ := http.NewRequest("GET", "/users?page=2&perPage=5", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "6", resp.Header().Get("X-Total-Count"))
	var users []model.User
	assert.True(t, decode(t, resp.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "anna", users[0].Name)
	repo.AssertExpectations(t)
}

func TestUserHandler_List_DefaultsAndLimits(t *testing.T) {
	router, repo, _ := setupUsers(t)
	repo.On("List", mock.Anything, model.Page{Number: 1, PerPage: 20}).Return([]model.User{}, int64(0), nil)

	req, _ := http.NewRequest("GET", "/users", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	for _, query := range []string{"perPage=101", "page=0", "page=abc", "page=1000001", "page=922337203685477582&perPage=10"} {
		req, _ := http.NewRequest("GET", "/users?"+query, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code, query)
	}
	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestUserHandler_GetByID(t *testing.T) {
	router, repo, _ := setupUsers(t)
	id := model.NewID()
	repo.On("GetByID", mock.Anything, id).Return(&model.User{ID: id, Name: "anna"}, nil)
	missing := model.NewID()
	repo.On("GetByID", mock.Anything, missing).Return(nil, repository.ErrNotFound)

	req, _ := http.NewRequest("GET", "/users/"+id, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	req, _ = http.NewRequest("GET", "/users/"+missing, nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	req, _ = http.NewRequest("GET", "/users/not-an-id", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	var data errorData
	decode(t, resp.Body.Bytes(), &data)
	assert.Equal(t, "CastError", data.Name)
}

func TestUserHandler_Create(t *testing.T) {
	router, repo, _ := setupUsers(t)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Name == "anna" && u.Description == "writes docs"
	})).Return(nil)

	resp := postJSON(router, "/users", handler.CreateUserRequest{Name: "anna", Description: "writes docs"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var user model.User
	assert.True(t, decode(t, resp.Body.Bytes(), &user))
	assert.Equal(t, "writes docs", user.Description)
	repo.AssertExpectations(t)
}

func TestUserHandler_Create_Invalid(t *testing.T) {
	router, repo, _ := setupUsers(t)

	cases := []handler.CreateUserRequest{
		{Name: "an"},
		{Name: "a-very-long-name"},
		{Name: "anna", ImageURL: "not a url"},
	}
	for _, body := range cases {
		resp := postJSON(router, "/users", body)
		assert.Equal(t, http.StatusBadRequest, resp.Code, body.Name)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserHandler_Create_DuplicateName(t *testing.T) {
	router, repo, _ := setupUsers(t)
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	resp := postJSON(router, "/users", handler.CreateUserRequest{Name: "anna"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "DuplicateKeyError")
}

func TestUserHandler_Update_OnlyGivenFields(t *testing.T) {
	router, repo, _ := setupUsers(t)
	id := model.NewID()
	repo.On("Update", mock.Anything, id, model.UserPatch{Description: strPtr("new")}).
		Return(&model.User{ID: id, Name: "anna", Description: "new"}, nil)

	req, _ := http.NewRequest("PUT", "/users/"+id, strings.NewReader(`{"description":"new"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	repo.AssertExpectations(t)
}

func TestUserHandler_Update_EmptyBody(t *testing.T) {
	router, repo, _ := setupUsers(t)

	req, _ := http.NewRequest("PUT", "/users/"+model.NewID(), strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "No fields to update")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func multipartImage(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", "avatar.bin")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUserHandler_UploadImage(t *testing.T) {
	// Arrange
	router, repo, _ := setupUsers(t)
	id := model.NewID()
	repo.On("GetByID", mock.Anything, id).Return(&model.User{ID: id, Name: "anna"}, nil)

	var imageURL string
	repo.On("Update", mock.Anything, id, mock.MatchedBy(func(p model.UserPatch) bool {
		if p.ImageURL == nil {
			return false
		}
		imageURL = *p.ImageURL
		return true
	})).Return(&model.User{ID: id, Name: "anna"}, nil)

	body, contentType := multipartImage(t, pngHeader)

	// Act
	req, _ := http.NewRequest("POST", "/users/"+id+"/image", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.True(t, strings.HasPrefix(imageURL, "http://api.test/images/"))
	assert.True(t, strings.HasSuffix(imageURL, ".png"))

	name := strings.TrimPrefix(imageURL, "http://api.test/images/")
	req, _ = http.NewRequest("GET", "/images/"+name, nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
	assert.Equal(t, pngHeader, resp.Body.Bytes())
}

func TestUserHandler_UploadImage_NotAnImage(t *testing.T) {
	router, repo, _ := setupUsers(t)
	id := model.NewID()
	repo.On("GetByID", mock.Anything, id).Return(&model.User{ID: id}, nil)

	body, contentType := multipartImage(t, []byte("just some text"))
	req, _ := http.NewRequest("POST", "/users/"+id+"/image", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "file is not an image")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_UploadImage_UnknownUser(t *testing.T) {
	router, repo, _ := setupUsers(t)
	id := model.NewID()
	repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

	body, contentType := multipartImage(t, pngHeader)
	req, _ := http.NewRequest("POST", "/users/"+id+"/image", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUserHandler_UploadImage_TooLarge(t *testing.T) {
	router, repo, dir := setupUsers(t)
	id := model.NewID()
	repo.On("GetByID", mock.Anything, id).Return(&model.User{ID: id}, nil)

	// Over the limit but inside the body cap, then past the body cap as well.
	for _, size := range []int{3 << 19, 3 << 20} {
		content := append(append([]byte{}, pngHeader...), make([]byte, size)...)
		body, contentType := multipartImage(t, content)

		req, _ := http.NewRequest("POST", "/users/"+id+"/image", body)
		req.Header.Set("Content-Type", contentType)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code, size)
		var data errorData
		decode(t, resp.Body.Bytes(), &data)
		assert.Equal(t, "image is too large", data.Message, size)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_UploadImage_RemovesBlobWhenUpdateFails(t *testing.T) {
	router, repo, dir := setupUsers(t)
	id := model.NewID()
	repo.On("GetByID", mock.Anything, id).Return(&model.User{ID: id}, nil)
	repo.On("Update", mock.Anything, id, mock.Anything).Return(nil, repository.ErrNotFound)

	body, contentType := multipartImage(t, pngHeader)
	req, _ := http.NewRequest("POST", "/users/"+id+"/image", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	repo.AssertExpectations(t)
}

func TestImageHandler_Missing(t *testing.T) {
	router, _, _ := setupUsers(t)

	req, _ := http.NewRequest("GET", "/images/nothing.png", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
