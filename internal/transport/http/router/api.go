package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-forum-api/internal/core/auth"
	"go-forum-api/internal/transport/http/handler"
	mdw "go-forum-api/internal/transport/http/middleware"
)

type APIDeps struct {
	Auth          *handler.AuthHandler
	Conversations *handler.ConversationHandler
	SSE           *handler.SSEHandler
	JWTer         *auth.JWTer
}

func NewAPIEngine(l *zap.Logger, d APIDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.SimpleRecovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 普通 API：限流 + 限并发 + 限体积 + 超时
	api := r.Group("/api/v1",
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
	)

	// 认证端点另加每 IP 限速，防撞库和批量注册
	authn := api.Group("", mdw.RateLimitPerIP(5, 10))
	authn.POST("/auth/signup", d.Auth.Signup)
	authn.POST("/auth/signin", d.Auth.Signin)
	authn.POST("/auth/remember", d.Auth.Remember)
	api.POST("/verify-email", d.Auth.VerifyEmail)
	api.GET("/conversations", d.Conversations.List)
	api.GET("/conversations/:id", d.Conversations.Details)
	api.GET("/topics", d.Conversations.Topics)

	authed := api.Group("", mdw.AuthJWT(d.JWTer, ""))
	authed.POST("/auth/signout", d.Auth.Signout)
	authed.POST("/conversations/:id/comments", d.Conversations.AddComment)

	// SSE 长连接不挂 Timeout/限流
	r.GET("/api/v1/sse", d.SSE.Stream)

	return r
}
