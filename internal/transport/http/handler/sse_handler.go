package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-forum-api/internal/sse"
	resp "go-forum-api/internal/transport/http/response"
)

const ssePingInterval = 15 * time.Second

type SSEHandler struct {
	broker *sse.Broker
}

func NewSSEHandler(broker *sse.Broker) *SSEHandler {
	return &SSEHandler{broker: broker}
}

// Stream 订阅某个会话的实时评论，15s 心跳保活
// 退订挂在 defer 上，客户端断开（ctx done）必然清理
func (h *SSEHandler) Stream(c *gin.Context) {
	raw := c.Query("conversationId")
	if raw == "" {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "conversationId is required"))
		return
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "invalid conversationId"))
		return
	}

	sub := h.broker.Subscribe(uint(id))
	defer h.broker.Unsubscribe(sub)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ping := time.NewTicker(ssePingInterval)
	defer ping.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-sub.C():
			if !ok {
				return false
			}
			b, err := json.Marshal(ev.Data)
			if err != nil {
				return true
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, b)
			return true
		case <-ping.C:
			fmt.Fprint(w, "data: ping\n\n")
			return true
		}
	})
}
