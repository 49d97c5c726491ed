package utils

import "github.com/gin-gonic/gin"

// ErrorBody is the uniform error shape. Code is the machine-readable kind:
// 400xx validation, 404xx not found, 409xx conflict (reserved), 500xx storage.
// Messages stay short and human-readable; store internals are never exposed.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Success writes data as the response body with status 200. Success payload
// shapes are endpoint-specific, so no envelope is added around them.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(200, data)
}

// Error writes a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	ctx.JSON(status, ErrorBody{Code: code, Message: message})
}
