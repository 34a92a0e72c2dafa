package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"argus-worker-go/internal/services"
)

type StreamHandler struct {
	container *services.ServiceContainer
	upgrader  websocket.Upgrader
}

func NewStreamHandler(container *services.ServiceContainer) *StreamHandler {
	return &StreamHandler{
		container: container,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// @Summary Live MJPEG stream
// @Description Multipart MJPEG stream of the latest annotated frames
// @Tags stream
// @Produce mpfd
// @Success 200 {string} string
// @Router /stream/mjpeg [get]
func (h *StreamHandler) MJPEG(c *gin.Context) {
	h.container.Publisher.ServeHTTP(c.Writer, c.Request)
}

// @Summary Alert WebSocket
// @Description Subscribe to the live alert stream; one JSON message per alert
// @Tags stream
// @Success 101 {string} string "Switching Protocols"
// @Router /ws/alerts [get]
func (h *StreamHandler) AlertsWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	hub := h.container.Hub
	hub.Register(conn)
	defer func() {
		hub.Unregister(conn)
		conn.Close()
	}()

	// Drain reads until the client goes away; the hub writes alerts.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
