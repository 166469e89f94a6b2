// Package response defines the JSON envelope every HTTP review endpoint
// answers with.
package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope. Code is 0 on success and the HTTP status
// otherwise.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends data with status 200.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// Fail aborts the request with status and message.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: message})
}

// BadRequest rejects a request the caller can correct.
func BadRequest(c *gin.Context, err error) {
	Fail(c, http.StatusBadRequest, err.Error())
}

// NotFound answers routes the API does not serve.
func NotFound(c *gin.Context) {
	Fail(c, http.StatusNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
}

// InternalError logs err and fails with status 500.
func InternalError(c *gin.Context, err error) {
	log.Printf("[api] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	Fail(c, http.StatusInternalServerError, err.Error())
}
