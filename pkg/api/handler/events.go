package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/LENAX/task-graph/pkg/core/events"
)

// EventsHandler 事件流WebSocket处理器
// 订阅事件总线并将引擎变更事件推送给WebSocket客户端
type EventsHandler struct {
	bus      *events.Bus
	upgrader websocket.Upgrader
}

// NewEventsHandler 创建EventsHandler
func NewEventsHandler(bus *events.Bus) *EventsHandler {
	return &EventsHandler{
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 跨域校验交给上层的CORS策略
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream 建立WebSocket连接并推送事件流
// GET /api/v1/events/ws
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade失败时gorilla已写入了HTTP错误响应
		log.Printf("[WS] upgrade失败: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	messages, err := h.bus.Subscribe(ctx)
	if err != nil {
		log.Printf("[WS] 订阅事件失败: %v", err)
		return
	}

	// 读协程只用于感知客户端断开
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for msg := range messages {
		if err := conn.WriteMessage(websocket.TextMessage, msg.Payload); err != nil {
			msg.Nack()
			return
		}
		msg.Ack()
	}
}
