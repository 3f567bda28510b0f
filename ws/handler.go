package ws

import (
	"net/http"

	"cobfacil_backend/internal/logger"
	"cobfacil_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const defaultSendBuffer = 256

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the dashboard origin once the frontend domain is fixed.
		return true
	},
}

// Handler upgrades HTTP requests into registry-tracked socket connections.
type Handler struct {
	registry   *Registry
	chat       services.ChatService
	sendBuffer int
}

func NewHandler(registry *Registry, chat services.ChatService, sendBuffer int) *Handler {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &Handler{
		registry:   registry,
		chat:       chat,
		sendBuffer: sendBuffer,
	}
}

// ServeWS upgrades the connection. The socket starts unauthenticated and is
// only bound into the registry when the client sends its auth frame.
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(conn, h.registry, h.chat, h.sendBuffer)

	go client.readPump()
	go client.writePump()
}
