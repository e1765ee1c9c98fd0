package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-forum-api/internal/core/auth"
	"go-forum-api/internal/transport/http/handler"
	mdw "go-forum-api/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, h *handler.AdminHandler, jwter *auth.JWTer) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1",
		mdw.RateLimit(50, 100),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.AuthJWT(jwter, "admin"),
	)

	admin.GET("/users", h.ListUsers)
	admin.POST("/conversations/:id/pin", h.Pin)
	admin.POST("/conversations/:id/unpin", h.Unpin)

	return r
}
