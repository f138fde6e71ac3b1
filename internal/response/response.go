// Package response 提供统一的HTTP响应辅助函数
// 成功响应直接返回领域对象JSON，错误响应统一为 {"error": message} 格式
// 并负责将应用错误码映射为HTTP状态码
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/notehubio/notehub/internal/errors"
)

// ErrorBody 错误响应结构体
// @Description API错误响应格式
type ErrorBody struct {
	// 错误消息
	Error string `json:"error" example:"Note Not Found"`
}

// OK 200成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 204无内容响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: message})
}

// NotFound 404错误响应
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorBody{Error: message})
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: message})
}

// Error 根据应用错误自动选择状态码的错误响应
// 映射规则: 未找到类错误 -> 404，参数错误 -> 400，其余 -> 500
func Error(c *gin.Context, err error) {
	appErr, ok := apperrors.GetAppError(err)
	if !ok {
		InternalServerError(c, err.Error())
		return
	}

	switch {
	case apperrors.IsNotFound(appErr):
		NotFound(c, appErr.Message)
	case appErr.Code == apperrors.ErrInvalidParams:
		BadRequest(c, appErr.Message)
	default:
		InternalServerError(c, appErr.Message)
	}
}
