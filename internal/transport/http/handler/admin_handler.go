package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-forum-api/internal/service"
	resp "go-forum-api/internal/transport/http/response"
)

type AdminHandler struct {
	users         *service.UserService
	conversations *service.ConversationService
	logger        *zap.Logger
}

func NewAdminHandler(users *service.UserService, conversations *service.ConversationService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, conversations: conversations, logger: logger}
}

type adminListQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // 按 username/email 模糊搜
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q adminListQ
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	out, err := h.users.ListUsers(c.Request.Context(), q.Offset, q.Limit, q.Q)
	if err != nil {
		writeErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(out))
}

func (h *AdminHandler) Pin(c *gin.Context)   { h.setPinned(c, true) }
func (h *AdminHandler) Unpin(c *gin.Context) { h.setPinned(c, false) }

func (h *AdminHandler) setPinned(c *gin.Context, pinned bool) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.conversations.SetPinned(c.Request.Context(), id, pinned); err != nil {
		writeErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"id": id, "isPinned": pinned}))
}
