package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求追踪ID的HTTP头名称
const RequestIDHeader = "X-Request-ID"

// RequestID 请求追踪中间件
// 为每个请求生成唯一的追踪ID，写入上下文和响应头
// 客户端传入的追踪ID会被原样沿用，便于跨服务链路追踪
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
