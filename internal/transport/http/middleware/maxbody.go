package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "go-forum-api/internal/transport/http/response"
)

// MaxBodyBytes 声明长度超限直接 413；没报长度的（chunked）由
// MaxBytesReader 在读取时截断，错误走各 handler 的 bind 分支
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				resp.Error(resp.CodePayloadTooLarge, "request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
