// Package response writes the {data, success} envelope every endpoint returns.
package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
}

// ErrorBody is the data of a failed response.
type ErrorBody struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Data: data, Success: true})
}

func Error(c *gin.Context, status int, name, message string) {
	c.JSON(status, Envelope{
		Data:    ErrorBody{Name: name, Message: message},
		Success: false,
	})
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, name, message string) {
	Error(c, status, name, message)
	c.Abort()
}
