// Package ws fans detection alerts out to WebSocket subscribers.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeTimeout = 10 * time.Second

// AlertHub manages the WebSocket connections subscribed to this worker's
// alert stream. The worker runs a single session, so the hub keeps one
// flat connection set.
type AlertHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewAlertHub creates an empty hub.
func NewAlertHub() *AlertHub {
	return &AlertHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// Register adds a subscriber connection.
func (h *AlertHub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[conn] = true
	log.Debug().Int("clients", len(h.clients)).Msg("WebSocket client registered")
}

// Unregister removes a subscriber connection.
func (h *AlertHub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		log.Debug().Int("clients", len(h.clients)).Msg("WebSocket client unregistered")
	}
}

// HasClients reports whether anyone is subscribed.
func (h *AlertHub) HasClients() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients) > 0
}

// ClientCount returns the number of connected subscribers.
func (h *AlertHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every subscriber. Connections that fail to
// accept the write are dropped and closed.
func (h *AlertHub) Broadcast(message []byte) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Debug().Err(err).Msg("Dropping unresponsive WebSocket client")
			h.Unregister(conn)
			conn.Close()
		}
	}
}

// BroadcastJSON marshals v and broadcasts it to every subscriber.
func (h *AlertHub) BroadcastJSON(v interface{}) {
	if !h.HasClients() {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal WebSocket message")
		return
	}
	h.Broadcast(data)
}
