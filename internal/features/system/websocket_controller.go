package system

import (
	"github.com/gofiber/contrib/websocket"
)

type WebSocketController struct {
	hub *Hub
}

func NewWebSocketController(hub *Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	h.hub.Serve(c)
}
