package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-forum-api/internal/service"
	mdw "go-forum-api/internal/transport/http/middleware"
	resp "go-forum-api/internal/transport/http/response"
)

type ConversationHandler struct {
	conversations *service.ConversationService
	comments      *service.CommentService
	logger        *zap.Logger
}

func NewConversationHandler(conversations *service.ConversationService, comments *service.CommentService, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, comments: comments, logger: logger}
}

type listQ struct {
	Page    int   `form:"page,default=1"`
	Limit   int   `form:"limit,default=10"`
	TopicID *uint `form:"topicId"`
}

func (h *ConversationHandler) List(c *gin.Context) {
	var q listQ
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	page, err := h.conversations.GetConversations(c.Request.Context(), q.Page, q.Limit, q.TopicID)
	if err != nil {
		writeErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(page))
}

func (h *ConversationHandler) Details(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	details, err := h.conversations.GetConversationDetails(c.Request.Context(), id)
	if err != nil {
		writeErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(details))
}

type addCommentIn struct {
	Content string `json:"content" binding:"required"`
}

func (h *ConversationHandler) AddComment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in addCommentIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "content is required"))
		return
	}
	uid := c.GetUint(mdw.KeyUserID)
	comment, err := h.comments.AddComment(c.Request.Context(), uid, id, in.Content)
	if err != nil {
		writeErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(comment))
}

func (h *ConversationHandler) Topics(c *gin.Context) {
	topics, err := h.conversations.ListTopics(c.Request.Context())
	if err != nil {
		writeErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(topics))
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "invalid id"))
		return 0, false
	}
	return uint(id), true
}
