package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	maxPage        = 1000000
)

var registerOnce sync.Once

// RegisterValidators adds the objectid and password rules to gin's validator
// and reports field errors by their JSON names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		// Empty strings pass; use required to demand a value.
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || model.IsValidID(s)
		})
		_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return auth.ValidatePassword(fl.Field().String()) == nil
		})
	})
}

type pageQuery struct {
	Page    *int `form:"page" json:"page" binding:"omitempty,min=1,max=1000000"`
	PerPage *int `form:"perPage" json:"perPage" binding:"omitempty,min=1,max=100"`
}

// page caps Number and PerPage so the offset (Number-1)*PerPage cannot
// overflow. The binding rules reject larger values first.
func (q pageQuery) page() model.Page {
	p := model.Page{Number: 1, PerPage: defaultPerPage}
	if q.Page != nil {
		p.Number = min(*q.Page, maxPage)
	}
	if q.PerPage != nil {
		p.PerPage = min(*q.PerPage, maxPerPage)
	}
	return p
}

func setTotal(c *gin.Context, total int64) {
	c.Header("X-Total-Count", fmt.Sprint(total))
}

// bindError answers a request whose body or query failed to bind.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		response.Error(c, http.StatusBadRequest, "ValidationError", strings.Join(msgs, "; "))
		return
	}
	response.Error(c, http.StatusBadRequest, "ValidationError", "Invalid request: "+err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "objectid":
		return field + " is not a valid id"
	case "url":
		return field + " must be a URL"
	case "password":
		return auth.ErrWeakPassword.Error()
	}
	return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
}

// storeError maps repository errors onto the response envelope. Unexpected
// errors are attached to the context so the request logger records them.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NotFound", "Document not found")
	case errors.Is(err, repository.ErrInvalidID):
		response.Error(c, http.StatusBadRequest, "CastError", "Invalid id")
	case errors.Is(err, repository.ErrDuplicate):
		response.Error(c, http.StatusBadRequest, "DuplicateKeyError", "A document with this value already exists")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusBadRequest, "DatabaseError", err.Error())
	}
}

// pathID reads an id parameter and answers 400 when it is malformed.
func pathID(c *gin.Context, param string) (string, bool) {
	id := c.Param(param)
	if !model.IsValidID(id) {
		response.Error(c, http.StatusBadRequest, "CastError", "Invalid id: "+id)
		return "", false
	}
	return id, true
}

func noFieldsError(c *gin.Context) {
	response.Error(c, http.StatusBadRequest, "ValidationError", "No fields to update")
}
